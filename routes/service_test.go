package routes_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/kdmobility/go-fleet-client/fleet"
	"github.com/kdmobility/go-fleet-client/routes"
	"github.com/kdmobility/go-fleet-client/stops"
	"github.com/kdmobility/go-fleet-client/transport/transporttest"
)

func TestNormalizeFieldReconciliation(t *testing.T) {
	r := routes.Record{
		ID:        "f0e1d2c3-aaaa-bbbb-cccc-000011112222",
		RouteName: "Gangnam Express",
		RouteType: "DRT",
		Status:    "SUSPENDED",
	}.Normalize()

	require.Equal(t, "Gangnam Express", r.Name)
	require.Equal(t, fleet.RouteDRT, r.Type)
	require.Equal(t, fleet.RouteSuspended, r.Status)
	// Code derived from the first 8 chars of the id, uppercased.
	require.Equal(t, "F0E1D2C3", r.Code)
}

func TestNormalizeDefaults(t *testing.T) {
	r := routes.Record{ID: "abc", Name: "Fallback Name"}.Normalize()
	require.Equal(t, "Fallback Name", r.Name)
	require.Equal(t, fleet.RouteCommute, r.Type)
	require.Equal(t, fleet.RouteActive, r.Status)
	require.Equal(t, "ABC", r.Code)
}

func TestNormalizeNestedStops(t *testing.T) {
	r := routes.Record{
		ID: "route-1",
		Stops: []stops.Record{
			{ID: "s1", StopName: "City Hall", Sequence: 1},
			{ID: "s2", Name: "Main Gate", Sequence: 2},
		},
	}.Normalize()

	require.Len(t, r.Stops, 2)
	require.Equal(t, "City Hall", r.Stops[0].Name)
	require.Equal(t, "Main Gate", r.Stops[1].Name)
}

func TestListPassesFilters(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc("/api/routes", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		require.Equal(t, "ACTIVE", q.Get("status"))
		require.Equal(t, "comp-1", q.Get("companyId"))
		require.Equal(t, "2", q.Get("page"))
		_, _ = w.Write([]byte(`{"success":true,"data":{"items":[
			{"id":"r1","routeName":"Line 1","routeType":"COMMUTE","status":"ACTIVE"}
		],"total":21}}`))
	})

	svc, err := routes.NewService(transporttest.NewServerClient(t, router))
	require.NoError(t, err)

	page, err := svc.List(context.Background(), routes.ListParams{Page: 2, Limit: 10, Status: "ACTIVE", CompanyID: "comp-1"})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	require.Equal(t, "Line 1", page.Data[0].Name)
	require.Equal(t, 3, page.Meta.TotalPages)
	require.Equal(t, 2, page.Meta.Page)
}
