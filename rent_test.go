package escrowswap

import (
	"testing"

	"github.com/iov-one/escrowswap/errors"
	"github.com/stretchr/testify/require"
)

func TestRentMinimumBalance(t *testing.T) {
	rent := DefaultRent()
	require.Equal(t, uint64(3480), rent.LamportsPerByteYear)

	cases := map[string]struct {
		size int
		want uint64
	}{
		"empty account": {size: 0, want: 890880},
		"escrow record": {size: 106, want: 1628640},
		"token account": {size: 165, want: 2039280},
		"mint":          {size: 82, want: 1461600},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			require.Equal(t, tc.want, rent.MinimumBalance(tc.size))
			require.True(t, rent.IsExempt(tc.want, tc.size))
			require.False(t, rent.IsExempt(tc.want-1, tc.size))
		})
	}
}

func TestRentValidate(t *testing.T) {
	cases := map[string]struct {
		rent    Rent
		wantErr *errors.Error
	}{
		"default": {rent: DefaultRent()},
		"zero price": {
			rent:    Rent{ExemptionThreshold: 2},
			wantErr: errors.ErrInput,
		},
		"zero threshold": {
			rent:    Rent{LamportsPerByteYear: 1},
			wantErr: errors.ErrInput,
		},
		"burn over hundred": {
			rent:    Rent{LamportsPerByteYear: 1, ExemptionThreshold: 1, BurnPercent: 101},
			wantErr: errors.ErrInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.rent.Validate()
			if tc.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.True(t, tc.wantErr.Is(err), "unexpected error: %v", err)
		})
	}
}
