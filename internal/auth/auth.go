// Package auth provides staff logins: bcrypt passwords and securecookie
// sessions. Customer-facing availability endpoints are unauthenticated;
// booking management requires a session and table optimization requires an
// admin one.
package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/example/tablebook/internal/db"
	"github.com/gorilla/securecookie"
	"golang.org/x/crypto/bcrypt"
)

type Store struct {
	sc *securecookie.SecureCookie
	db *db.DB
}

type ctxKey string

const sessionKey ctxKey = "session"

const cookieName = "tablebook_session"

// sessionMaxAge bounds both the securecookie validity window and the
// browser cookie lifetime, so the cookie outlives browser restarts for
// exactly as long as its encoded value stays valid.
const sessionMaxAge = 14 * 24 * time.Hour

func NewStore(d *db.DB, hashKey, blockKey []byte) *Store {
	sc := securecookie.New(hashKey, blockKey)
	sc.MaxAge(int(sessionMaxAge.Seconds()))
	return &Store{sc: sc, db: d}
}

func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b), err
}

func CheckPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

func (s *Store) CreateUser(ctx context.Context, username, password string, admin bool) error {
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx,
		`INSERT INTO users(username, password_bcrypt, is_admin) VALUES ($1,$2,$3)`,
		username, hash, admin)
	return err
}

type Session struct {
	UserID int64
	Admin  bool
}

func (s *Store) Authenticate(ctx context.Context, username, password string) (Session, error) {
	var id int64
	var hash string
	var admin bool
	err := s.db.QueryRow(ctx,
		`SELECT id, password_bcrypt, is_admin FROM users WHERE username=$1`, username).
		Scan(&id, &hash, &admin)
	if err != nil {
		return Session{}, db.WrapNotFound(err)
	}
	if !CheckPassword(hash, password) {
		return Session{}, errors.New("invalid credentials")
	}
	return Session{UserID: id, Admin: admin}, nil
}

func (s *Store) SetSession(w http.ResponseWriter, r *http.Request, sess Session) error {
	val := map[string]any{"uid": sess.UserID, "admin": sess.Admin, "v": 1}
	encoded, err := s.sc.Encode(cookieName, val)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    encoded,
		Path:     "/",
		MaxAge:   int(sessionMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})
	return nil
}

func (s *Store) ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

func (s *Store) SessionFrom(r *http.Request) (Session, bool) {
	c, err := r.Cookie(cookieName)
	if err != nil {
		return Session{}, false
	}
	val := map[string]any{}
	if err := s.sc.Decode(cookieName, c.Value, &val); err != nil {
		return Session{}, false
	}
	uid, ok := val["uid"].(int64)
	if !ok || uid <= 0 {
		return Session{}, false
	}
	admin, _ := val["admin"].(bool)
	return Session{UserID: uid, Admin: admin}, true
}

// RequireAuth rejects requests without a valid session cookie.
func (s *Store) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := s.SessionFrom(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey, sess)))
	})
}

// RequireAdmin rejects requests whose session is missing or non-admin.
func (s *Store) RequireAdmin(next http.Handler) http.Handler {
	return s.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, _ := SessionFromContext(r.Context())
		if !sess.Admin {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	}))
}

func SessionFromContext(ctx context.Context) (Session, bool) {
	sess, ok := ctx.Value(sessionKey).(Session)
	return sess, ok
}
