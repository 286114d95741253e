package main

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"nss-bloodbank/backend/internal/identity/domain"
	"nss-bloodbank/backend/internal/session"
)

const tokenFileName = "token"

// localSession is the signed-in identity and bearer token kept between invocations.
type localSession struct {
	store *session.Store
	token *session.FileStorage
}

func openLocalSession(ctx context.Context, dir string, logger *zap.Logger) (*localSession, error) {
	idFile, err := session.NewFileStorage(dir, session.DefaultFileName)
	if err != nil {
		return nil, err
	}
	tokenFile, err := session.NewFileStorage(dir, tokenFileName)
	if err != nil {
		return nil, err
	}
	store := session.NewStore(idFile, logger)
	if _, err := store.Restore(ctx); err != nil {
		return nil, err
	}
	return &localSession{store: store, token: tokenFile}, nil
}

func (l *localSession) Identity() (*domain.Identity, bool) {
	return l.store.Current()
}

// AccessToken returns the saved bearer token, or "" when signed out.
func (l *localSession) AccessToken(ctx context.Context) string {
	if _, ok := l.store.Current(); !ok {
		return ""
	}
	b, err := l.token.Load(ctx)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}

func (l *localSession) Save(ctx context.Context, id *domain.Identity, token string) error {
	if err := l.token.Save(ctx, []byte(token)); err != nil {
		return err
	}
	return l.store.Set(ctx, id)
}

func (l *localSession) Clear(ctx context.Context) error {
	return errors.Join(l.store.Clear(ctx), l.token.Delete(ctx))
}
