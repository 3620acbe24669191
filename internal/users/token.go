package users

import (
	"fmt"
	"sync"
	"time"
)

// DefaultTokenTTL applies when an issuer is built without a positive TTL.
const DefaultTokenTTL = time.Hour

// sweepEvery bounds how many issues pass between full expiry sweeps.
const sweepEvery = 256

// Issuer hands out session tokens and maps them back to a user id.
type Issuer interface {
	Issue(u User) (string, error)
	Resolve(token string) (int, error)
}

// OpaqueIssuer produces "token_<id>_<epoch-ms>" strings and remembers them
// until they expire.
type OpaqueIssuer struct {
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	issued map[string]opaqueEntry
	issues int
}

type opaqueEntry struct {
	userID  int
	expires time.Time
}

func NewOpaqueIssuer(ttl time.Duration) *OpaqueIssuer {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &OpaqueIssuer{ttl: ttl, now: time.Now, issued: make(map[string]opaqueEntry)}
}

func (o *OpaqueIssuer) Issue(u User) (string, error) {
	now := o.now()
	tok := fmt.Sprintf("token_%d_%d", u.ID, now.UnixMilli())

	o.mu.Lock()
	defer o.mu.Unlock()

	o.issued[tok] = opaqueEntry{userID: u.ID, expires: now.Add(o.ttl)}
	o.issues++
	if o.issues%sweepEvery == 0 {
		o.sweep(now)
	}
	return tok, nil
}

func (o *OpaqueIssuer) Resolve(token string) (int, error) {
	now := o.now()

	o.mu.Lock()
	defer o.mu.Unlock()

	e, ok := o.issued[token]
	if !ok {
		return 0, ErrInvalidToken
	}
	if !now.Before(e.expires) {
		delete(o.issued, token)
		return 0, ErrInvalidToken
	}
	return e.userID, nil
}

// Len reports how many tokens are currently retained.
func (o *OpaqueIssuer) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.issued)
}

// sweep drops expired tokens. Callers hold mu.
func (o *OpaqueIssuer) sweep(now time.Time) {
	for tok, e := range o.issued {
		if !now.Before(e.expires) {
			delete(o.issued, tok)
		}
	}
}
