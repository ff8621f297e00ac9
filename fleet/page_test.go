package fleet_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kdmobility/go-fleet-client/fleet"
)

func TestSynthesizeMeta(t *testing.T) {
	cases := []struct {
		total, page, limit int
		want               fleet.Meta
	}{
		{45, 2, 10, fleet.Meta{Total: 45, Page: 2, Limit: 10, TotalPages: 5}},
		{50, 1, 10, fleet.Meta{Total: 50, Page: 1, Limit: 10, TotalPages: 5}},
		{51, 1, 10, fleet.Meta{Total: 51, Page: 1, Limit: 10, TotalPages: 6}},
		{0, 1, 10, fleet.Meta{Total: 0, Page: 1, Limit: 10, TotalPages: 0}},
		// Out-of-range page and limit fall back to the defaults.
		{3, 0, 0, fleet.Meta{Total: 3, Page: 1, Limit: 10, TotalPages: 1}},
	}
	for _, c := range cases {
		require.Equal(t, c.want, fleet.SynthesizeMeta(c.total, c.page, c.limit), "total=%d limit=%d", c.total, c.limit)
	}
}
