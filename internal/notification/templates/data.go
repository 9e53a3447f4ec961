package templates

// VerifyEmailData holds variables for the user.verify_email scenario.
type VerifyEmailData struct {
	URL string
}

// VerifyEmail is the typed handle for the user.verify_email template.
var VerifyEmail = Expect[VerifyEmailData]("user.verify_email")

// PasswordResetData holds variables for the user.password_reset scenario.
type PasswordResetData struct {
	URL string
}

// PasswordReset is the typed handle for the user.password_reset template.
var PasswordReset = Expect[PasswordResetData]("user.password_reset")
