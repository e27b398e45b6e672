package session

import (
	"encoding/json"
	"net/http"
	"time"

	"bookstore-web/models"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	DefaultCookieName = "bookstore_session"
	maxAge            = 86400 * 30

	keyVisitor = "visitor_id"
	keyToken   = "token"
	keyUser    = "user"
	keyExpires = "expires_at"
)

type FlashKind string

const (
	FlashSuccess FlashKind = "success"
	FlashError   FlashKind = "error"
	FlashInfo    FlashKind = "info"
)

var flashKinds = []FlashKind{FlashError, FlashSuccess, FlashInfo}

type Flash struct {
	Kind    FlashKind
	Message string
}

// State is the decoded visitor session.
type State struct {
	VisitorID string
	Token     string
	User      *models.User
	ExpiresAt time.Time
}

func (s *State) Authenticated() bool {
	return s != nil && s.Token != "" && s.User != nil
}

func (s *State) IsAdmin() bool {
	return s.Authenticated() && s.User.IsAdmin()
}

// Expired reports whether the signed-in token is past its expiry.
func (s *State) Expired(now time.Time) bool {
	return s.Token != "" && !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// NewCookieStore builds the signed cookie store holding visitor sessions.
func NewCookieStore(secret []byte, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// Manager reads and writes the visitor session. Every mutating call saves
// the session immediately, so it must run before the response body is written.
type Manager struct {
	store sessions.Store
	name  string
}

func NewManager(store sessions.Store, cookieName string) *Manager {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	return &Manager{store: store, name: cookieName}
}

// get never fails: an unreadable cookie (rotated secret, tampering) yields
// the fresh session the store hands back alongside the decode error.
func (m *Manager) get(r *http.Request) *sessions.Session {
	s, _ := m.store.Get(r, m.name)
	if s == nil {
		s = sessions.NewSession(m.store, m.name)
	}
	return s
}

// Load decodes the session and makes sure it carries a visitor id.
func (m *Manager) Load(w http.ResponseWriter, r *http.Request) (*State, error) {
	s := m.get(r)

	st := &State{}
	st.VisitorID, _ = s.Values[keyVisitor].(string)
	st.Token, _ = s.Values[keyToken].(string)
	if raw, ok := s.Values[keyUser].(string); ok && raw != "" {
		var u models.User
		if json.Unmarshal([]byte(raw), &u) == nil {
			st.User = &u
		}
	}
	if exp, ok := s.Values[keyExpires].(int64); ok && exp > 0 {
		st.ExpiresAt = time.Unix(exp, 0)
	}

	if st.VisitorID == "" {
		st.VisitorID = uuid.NewString()
		s.Values[keyVisitor] = st.VisitorID
		if err := s.Save(r, w); err != nil {
			return st, err
		}
	}
	return st, nil
}

func (m *Manager) SignIn(w http.ResponseWriter, r *http.Request, token string, user models.User, expiresAt time.Time) error {
	s := m.get(r)
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	s.Values[keyToken] = token
	s.Values[keyUser] = string(raw)
	s.Values[keyExpires] = expiresAt.Unix()
	if _, ok := s.Values[keyVisitor].(string); !ok {
		s.Values[keyVisitor] = uuid.NewString()
	}
	return s.Save(r, w)
}

func (m *Manager) UpdateUser(w http.ResponseWriter, r *http.Request, user models.User) error {
	s := m.get(r)
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	s.Values[keyUser] = string(raw)
	return s.Save(r, w)
}

// SignOut drops the credentials but keeps the visitor id, so the cart survives.
func (m *Manager) SignOut(w http.ResponseWriter, r *http.Request) error {
	s := m.get(r)
	delete(s.Values, keyToken)
	delete(s.Values, keyUser)
	delete(s.Values, keyExpires)
	return s.Save(r, w)
}

func (m *Manager) AddFlash(w http.ResponseWriter, r *http.Request, kind FlashKind, message string) error {
	s := m.get(r)
	s.AddFlash(message, flashKey(kind))
	return s.Save(r, w)
}

// Flashes pops all pending flash messages, errors first.
func (m *Manager) Flashes(w http.ResponseWriter, r *http.Request) ([]Flash, error) {
	s := m.get(r)
	var out []Flash
	for _, kind := range flashKinds {
		for _, v := range s.Flashes(flashKey(kind)) {
			if msg, ok := v.(string); ok {
				out = append(out, Flash{Kind: kind, Message: msg})
			}
		}
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, s.Save(r, w)
}

func flashKey(kind FlashKind) string {
	return "_flash_" + string(kind)
}
