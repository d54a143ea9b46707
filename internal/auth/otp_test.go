package auth

import (
	"testing"
	"time"

	"github.com/adityarathore/fintrack-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOTP_SixDigits(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := GenerateOTP()
		require.NoError(t, err)
		assert.Len(t, code, 6)
		assert.GreaterOrEqual(t, code, "100000")
		assert.LessOrEqual(t, code, "999999")
	}
}

func TestOTPManager_IssueAndVerify(t *testing.T) {
	m := NewOTPManager(10 * time.Minute)
	user := &models.User{ID: "user123"}

	code, err := m.Issue(user, models.OTPPurposeSignupVerify)
	require.NoError(t, err)
	require.True(t, user.HasOTP())

	err = m.Verify(user, code, models.OTPPurposeSignupVerify)
	assert.NoError(t, err)
}

func TestOTPManager_Verify_NoOTP(t *testing.T) {
	m := NewOTPManager(10 * time.Minute)
	user := &models.User{ID: "user123"}

	err := m.Verify(user, "123456", models.OTPPurposeSignupVerify)
	assert.ErrorIs(t, err, models.ErrOTPNotFound)
}

func TestOTPManager_Verify_WrongPurpose(t *testing.T) {
	m := NewOTPManager(10 * time.Minute)
	user := &models.User{ID: "user123"}

	code, err := m.Issue(user, models.OTPPurposePasswordReset)
	require.NoError(t, err)

	// A reset code must not satisfy signup verification
	err = m.Verify(user, code, models.OTPPurposeSignupVerify)
	assert.ErrorIs(t, err, models.ErrOTPNotFound)
}

func TestOTPManager_Verify_Expired(t *testing.T) {
	m := NewOTPManager(-1 * time.Minute)
	user := &models.User{ID: "user123"}

	code, err := m.Issue(user, models.OTPPurposeSignupVerify)
	require.NoError(t, err)

	err = m.Verify(user, code, models.OTPPurposeSignupVerify)
	assert.ErrorIs(t, err, models.ErrOTPExpired)
}

func TestOTPManager_Verify_Mismatch(t *testing.T) {
	m := NewOTPManager(10 * time.Minute)
	user := &models.User{ID: "user123"}

	code, err := m.Issue(user, models.OTPPurposeSignupVerify)
	require.NoError(t, err)

	wrong := "000000"
	if code == wrong {
		wrong = "000001"
	}

	err = m.Verify(user, wrong, models.OTPPurposeSignupVerify)
	assert.ErrorIs(t, err, models.ErrOTPMismatch)

	// A failed attempt must not consume the stored code
	assert.True(t, user.HasOTP())
	assert.NoError(t, m.Verify(user, code, models.OTPPurposeSignupVerify))
}

func TestOTPManager_Verify_TrimsWhitespace(t *testing.T) {
	m := NewOTPManager(10 * time.Minute)
	user := &models.User{ID: "user123"}

	code, err := m.Issue(user, models.OTPPurposeSignupVerify)
	require.NoError(t, err)

	err = m.Verify(user, "  "+code+" ", models.OTPPurposeSignupVerify)
	assert.NoError(t, err)
}

func TestOTPManager_Issue_OverwritesOutstandingCode(t *testing.T) {
	m := NewOTPManager(10 * time.Minute)
	user := &models.User{ID: "user123"}

	first, err := m.Issue(user, models.OTPPurposeSignupVerify)
	require.NoError(t, err)

	second, err := m.Issue(user, models.OTPPurposePasswordReset)
	require.NoError(t, err)

	// The old code is gone along with its purpose
	err = m.Verify(user, first, models.OTPPurposeSignupVerify)
	assert.ErrorIs(t, err, models.ErrOTPNotFound)

	assert.NoError(t, m.Verify(user, second, models.OTPPurposePasswordReset))
}
