package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	ErrInvalidCookie = errors.New("invalid session cookie")
)

const (
	cookieName = "storefront_session"
	keyPrefix  = "session:"
)

// Manager loads and saves session documents. The cookie holds only a signed
// session ID (HS256); all state lives server-side in Redis.
type Manager struct {
	client  *redis.Client
	secret  []byte
	baseTTL time.Duration
	secure  bool
}

func NewManager(client *redis.Client, secret string, ttl time.Duration, secureCookies bool) *Manager {
	return &Manager{
		client:  client,
		secret:  []byte(secret),
		baseTTL: ttl,
		secure:  secureCookies,
	}
}

// Load returns the session for the request's cookie, or a fresh session when
// there is no cookie, the signature is bad, or the document has expired. The
// returned value is this request's private copy.
func (m *Manager) Load(ctx context.Context, r *http.Request) *Session {
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return newSession()
	}

	id, err := m.verify(cookie.Value)
	if err != nil {
		log.Printf("[Session] Rejected cookie: %v", err)
		return newSession()
	}

	data, err := m.client.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return newSession()
	}
	if err != nil {
		log.Printf("[Session] Redis get failed: %v", err)
		return newSession()
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		log.Printf("[Session] Corrupt session document %s: %v", id, err)
		return newSession()
	}
	sess.ID = id
	return &sess
}

// Save commits the session document and refreshes the cookie. Handlers call
// it once, at the boundary, after all mutations for the request are done.
func (m *Manager) Save(ctx context.Context, w http.ResponseWriter, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	jitter := time.Duration(rand.Intn(300)) * time.Second
	if err := m.client.Set(ctx, keyPrefix+sess.ID, data, m.baseTTL+jitter).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	token, err := m.sign(sess.ID)
	if err != nil {
		return fmt.Errorf("sign session cookie: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.baseTTL.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Destroy removes the session document and expires the cookie.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, sess *Session) error {
	if err := m.client.Del(ctx, keyPrefix+sess.ID).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func newSession() *Session {
	return &Session{ID: uuid.New().String()}
}

func (m *Manager) sign(sessionID string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:  sessionID,
		IssuedAt: jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *Manager) verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidCookie
		}
		return m.secret, nil
	})
	if err != nil {
		return "", ErrInvalidCookie
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", ErrInvalidCookie
	}
	return claims.Subject, nil
}
