package transport_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kdmobility/go-fleet-client/fleet"
	"github.com/kdmobility/go-fleet-client/transport"
	"github.com/kdmobility/go-fleet-client/transport/transporttest"
)

type item struct {
	ID string `json:"id"`
}

func listClient(t *testing.T, body string) *transport.Client {
	t.Helper()
	return transporttest.NewServerClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
}

func TestListSynthesizesMetaFromTotal(t *testing.T) {
	// items but no meta: totalPages must be ceil(total/limit) for the
	// caller's requested limit.
	client := listClient(t, `{"success":true,"data":{"items":[{"id":"a"},{"id":"b"}],"total":45}}`)

	items, meta, err := transport.GetList[item](context.Background(), client, "/vehicles", nil, transport.PageParams{Page: 2, Limit: 10})
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, fleet.Meta{Total: 45, Page: 2, Limit: 10, TotalPages: 5}, meta)
}

func TestListFallsBackToItemCount(t *testing.T) {
	// Neither total nor meta: total is the length of the returned array.
	client := listClient(t, `{"success":true,"data":{"items":[{"id":"a"},{"id":"b"},{"id":"c"}]}}`)

	items, meta, err := transport.GetList[item](context.Background(), client, "/stops", nil, transport.PageParams{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, items, 3)
	require.Equal(t, 3, meta.Total)
	require.Equal(t, 1, meta.TotalPages)
}

func TestListPrefersExplicitMeta(t *testing.T) {
	client := listClient(t, `{"success":true,"data":{"items":[{"id":"a"}],"meta":{"total":100,"page":3,"limit":25,"totalPages":4}}}`)

	_, meta, err := transport.GetList[item](context.Background(), client, "/routes", nil, transport.PageParams{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Equal(t, fleet.Meta{Total: 100, Page: 3, Limit: 25, TotalPages: 4}, meta)
}

func TestListAcceptsPaginationVariant(t *testing.T) {
	client := listClient(t, `{"success":true,"data":{"data":[{"id":"a"}],"pagination":{"total":7,"page":1,"limit":5,"totalPages":2}}}`)

	items, meta, err := transport.GetList[item](context.Background(), client, "/drivers", nil, transport.PageParams{Page: 1, Limit: 5})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, 7, meta.Total)
	require.Equal(t, 2, meta.TotalPages)
}

func TestListAcceptsBareArray(t *testing.T) {
	client := listClient(t, `[{"id":"a"},{"id":"b"}]`)

	items, meta, err := transport.GetList[item](context.Background(), client, "/companies", nil, transport.PageParams{})
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, fleet.Meta{Total: 2, Page: 1, Limit: 10, TotalPages: 1}, meta)
}

func TestListAcceptsBareObjectWithDataAndTotal(t *testing.T) {
	client := listClient(t, `{"data":[{"id":"a"}],"total":11}`)

	items, meta, err := transport.GetList[item](context.Background(), client, "/users", nil, transport.PageParams{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, 11, meta.Total)
	require.Equal(t, 2, meta.TotalPages)
}

func TestListSendsPageAndLimitParams(t *testing.T) {
	var gotPage, gotLimit string
	client := transporttest.NewServerClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPage = r.URL.Query().Get("page")
		gotLimit = r.URL.Query().Get("limit")
		_, _ = w.Write([]byte(`{"success":true,"data":{"items":[]}}`))
	}))

	_, meta, err := transport.GetList[item](context.Background(), client, "/vehicles", nil, transport.PageParams{Page: 4, Limit: 50})
	require.NoError(t, err)
	require.Equal(t, "4", gotPage)
	require.Equal(t, "50", gotLimit)
	require.Equal(t, 0, meta.Total)
}
