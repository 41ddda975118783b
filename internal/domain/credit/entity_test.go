package credit_test

import (
	"errors"
	"testing"

	"github.com/pickme/intel-api/internal/domain/credit"
)

func TestDeltaSignConventions(t *testing.T) {
	cases := []struct {
		name    string
		action  credit.Action
		credits int
		want    int
		wantErr error
	}{
		{"renewal adds", credit.ActionRenewal, 50, 50, nil},
		{"topup adds", credit.ActionTopUp, 10, 10, nil},
		{"refund adds", credit.ActionRefund, 2, 2, nil},
		{"deduction subtracts", credit.ActionDeduction, 3, -3, nil},
		{"adjustment keeps sign up", credit.ActionAdjustment, 7, 7, nil},
		{"adjustment keeps sign down", credit.ActionAdjustment, -7, -7, nil},
		{"renewal rejects zero", credit.ActionRenewal, 0, 0, credit.ErrInvalidAction},
		{"renewal rejects negative", credit.ActionRenewal, -5, 0, credit.ErrInvalidAction},
		{"deduction rejects zero", credit.ActionDeduction, 0, 0, credit.ErrInvalidAction},
		{"deduction rejects negative", credit.ActionDeduction, -1, 0, credit.ErrInvalidAction},
		{"adjustment rejects zero", credit.ActionAdjustment, 0, 0, credit.ErrInvalidAction},
		{"unknown action", credit.Action("Bonus"), 5, 0, credit.ErrInvalidAction},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := credit.Delta(tc.action, tc.credits)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected delta %d, got %d", tc.want, got)
			}
		})
	}
}

func TestActionValid(t *testing.T) {
	for _, a := range []credit.Action{
		credit.ActionRenewal, credit.ActionDeduction, credit.ActionTopUp,
		credit.ActionRefund, credit.ActionAdjustment,
	} {
		if !a.Valid() {
			t.Errorf("expected %q to be valid", a)
		}
	}
	if credit.Action("renewal").Valid() {
		t.Error("action names are case sensitive")
	}
}
