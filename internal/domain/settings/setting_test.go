package settings

import (
	"errors"
	"testing"

	"github.com/billbook/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetting_Update(t *testing.T) {
	s := NewSetting(uuid.New())
	assert.Equal(t, 1, s.GetVersion())
	assert.Empty(t, s.HSNCodes)

	err := s.Update(Profile{
		CompanyName: " Billbook LLP ",
		SellerGSTIN: "24aaacb1234c1z5",
		SellerPAN:   "aaacb1234c",
		IFSCCode:    "hdfc0001234",
		HSNCodes:    []string{"998311", " 998311", "", "998314"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Billbook LLP", s.CompanyName)
	assert.Equal(t, "24AAACB1234C1Z5", s.SellerGSTIN)
	assert.Equal(t, []string{"998311", "998314"}, s.HSNCodes)
	assert.True(t, s.HasHSNCode("998314"))
	assert.False(t, s.HasHSNCode("1234"))
	assert.Equal(t, 2, s.GetVersion())
}

func TestProfile_Validate(t *testing.T) {
	s := NewSetting(uuid.New())
	err := s.Update(Profile{SellerGSTIN: "BAD", SellerPAN: "123", IFSCCode: "X", HSNCodes: []string{"12345678901"}})

	var verr *shared.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"hsn_codes", "ifsc_code", "seller_gstin", "seller_pan"}, verr.FieldNames())
	assert.Equal(t, 1, s.GetVersion(), "failed update leaves the setting untouched")
}
