package views

import (
	"context"
	"log/slog"

	"spendwise/internal/auth"
	applog "spendwise/internal/log"
)

type Profile struct {
	session *auth.Session
	logger  *slog.Logger
}

func NewProfile(session *auth.Session, logger *slog.Logger) *Profile {
	return &Profile{
		session: session,
		logger:  applog.Or(logger).With(applog.FieldComponent, applog.ComponentProfile),
	}
}

func (p *Profile) SignIn(ctx context.Context, provider auth.Provider) (auth.User, error) {
	u, err := p.session.SignIn(ctx, provider)
	if err != nil {
		p.logger.WarnContext(ctx, "Sign in failed",
			applog.FieldOperation, applog.OpSignIn,
			applog.FieldProvider, string(provider),
			applog.FieldError, err)
		return auth.User{}, err
	}
	p.logger.InfoContext(ctx, "Signed in",
		applog.FieldOperation, applog.OpSignIn,
		applog.FieldProvider, string(provider),
		"user_id", u.ID)
	return u, nil
}

func (p *Profile) SignOut(ctx context.Context) {
	p.session.SignOut()
	p.logger.InfoContext(ctx, "Signed out", applog.FieldOperation, applog.OpSignOut)
}

func (p *Profile) SelectAvatar(avatar string) error {
	return p.session.SetAvatar(avatar)
}

// User returns the signed-in user.
func (p *Profile) User() (auth.User, bool) {
	return p.session.Current()
}
