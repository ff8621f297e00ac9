package users_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/kdmobility/go-fleet-client/fleet"
	"github.com/kdmobility/go-fleet-client/transport/transporttest"
	"github.com/kdmobility/go-fleet-client/users"
)

func TestListPassesFiltersAndNormalizesEnvelope(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc("/api/users", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		require.Equal(t, "DRIVER", q.Get("role"))
		require.Equal(t, "kim", q.Get("search"))
		_, _ = w.Write([]byte(`{"success":true,"data":{"items":[
			{"id":"u1","email":"kim@example.com","name":"Kim Minsu","role":"DRIVER"}
		],"pagination":{"total":1,"page":1,"limit":10,"totalPages":1}}}`))
	})

	svc, err := users.NewService(transporttest.NewServerClient(t, router))
	require.NoError(t, err)

	page, err := svc.List(context.Background(), users.ListParams{Role: "DRIVER", Search: "kim"})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	require.Equal(t, "kim@example.com", page.Data[0].Email)
	require.Equal(t, 1, page.Meta.Total)
}

func TestGetPassesThrough(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc("/api/users/u1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"data":{"id":"u1","name":"Kim Minsu","role":"KD_OPERATOR"}}`))
	})

	svc, err := users.NewService(transporttest.NewServerClient(t, router))
	require.NoError(t, err)

	u, err := svc.Get(context.Background(), "u1")
	require.NoError(t, err)
	require.Equal(t, "Kim Minsu", u.Name)
	require.True(t, u.IsAdmin())
}

func TestUserRoleHelpers(t *testing.T) {
	operator := fleet.User{Role: fleet.RoleOperator}
	require.True(t, operator.IsAdmin())
	require.True(t, operator.IsCompanyAdmin())

	companyAdmin := fleet.User{Role: fleet.RoleCompanyAdmin}
	require.True(t, companyAdmin.IsCompanyAdmin())
	require.False(t, companyAdmin.IsAdmin())

	rider := fleet.User{Role: fleet.RoleRider}
	require.False(t, rider.HasRole(fleet.RoleDriver, fleet.RoleOperator))
	require.True(t, rider.HasRole(fleet.RoleRider))

	var nobody *fleet.User
	require.False(t, nobody.HasRole(fleet.RoleRider))
}
