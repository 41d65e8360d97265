package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/thruflo/rota/internal/auth"
	"github.com/thruflo/rota/internal/config"
	"github.com/thruflo/rota/internal/logging"
	"github.com/thruflo/rota/internal/rpc"
)

// Messages returned to clients in ok=false results.
const (
	MsgInvalidCredentials = "Invalid username or password"
	MsgUsernameRequired   = "Username is required"
	MsgUsernameTooLong    = "Username is too long"
	MsgUsernameTaken      = "Username is already taken"
	MsgPasswordTooShort   = "Password must be at least 8 characters"
	MsgDisplayNameTooLong = "Display name is too long"
	MsgRegistered         = "Registration complete"
	MsgSessionExpired     = "Session expired"
	MsgNoShift            = "No shift assigned"
)

const (
	tokenBytes        = 32
	minPasswordLength = 8
	maxUsernameLength = 64
	maxDisplayLength  = 128
)

var errInternal = errors.New("internal error")

type account struct {
	displayName  string
	passwordHash string
	shift        *rpc.Shift
}

type tokenEntry struct {
	username string
	expiry   time.Time
}

// Directory is the reference rpc.Backend: users from the config file plus
// any registered at run time, and the session tokens issued to them.
// Registered users live in memory only.
type Directory struct {
	ttl     time.Duration
	limiter *loginLimiter
	logger  *logging.Logger
	now     func() time.Time

	mu     sync.RWMutex
	users  map[string]*account
	tokens map[string]tokenEntry
}

// NewDirectory creates a Directory from configured users. Tokens expire
// after ttl.
func NewDirectory(users []config.User, ttl time.Duration, limits LoginLimitConfig, logger *logging.Logger) (*Directory, error) {
	if err := config.ValidateUsers(users); err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = config.DefaultTokenTTL
	}
	if logger == nil {
		logger = logging.Default()
	}

	d := &Directory{
		ttl:     ttl,
		limiter: newLoginLimiter(limits, logger),
		logger:  logger,
		now:     time.Now,
		users:   make(map[string]*account, len(users)),
		tokens:  make(map[string]tokenEntry),
	}
	for _, u := range users {
		acct := &account{displayName: u.DisplayName, passwordHash: u.PasswordHash}
		if u.Shift != nil {
			acct.shift = &rpc.Shift{Group: u.Shift.Group, Start: u.Shift.Start, End: u.Shift.End}
		}
		d.users[u.Username] = acct
	}
	return d, nil
}

// Login checks credentials and issues a token. When the context carries a
// client IP, attempts from that IP are rate limited.
func (d *Directory) Login(ctx context.Context, username, password string) (rpc.LoginResult, error) {
	ip := clientIP(ctx)
	if ip != "" {
		if res := d.limiter.check(ip); !res.Allowed {
			return rpc.LoginResult{
				Message: fmt.Sprintf("%s, retry in %s", res.Reason, res.RetryAfter.Round(time.Second)),
			}, nil
		}
	}

	username = strings.TrimSpace(username)

	d.mu.RLock()
	acct := d.users[username]
	d.mu.RUnlock()

	ok := false
	if acct == nil {
		auth.VerifyUnknown(password)
	} else {
		var err error
		ok, err = auth.VerifyPassword(password, acct.passwordHash)
		if err != nil {
			d.logger.Error("failed to verify password", "user", username, "error", err)
			return rpc.LoginResult{}, errInternal
		}
	}

	if !ok {
		if ip != "" {
			d.limiter.recordFailure(ip)
		}
		d.logger.Info("login rejected", "user", username, "ip", ip)
		return rpc.LoginResult{Message: MsgInvalidCredentials}, nil
	}

	if ip != "" {
		d.limiter.recordSuccess(ip)
	}

	token, err := d.issueToken(username)
	if err != nil {
		d.logger.Error("failed to issue token", "user", username, "error", err)
		return rpc.LoginResult{}, errInternal
	}
	d.logger.Info("login", "user", username, "ip", ip)
	return rpc.LoginResult{OK: true, Token: token}, nil
}

// Validate reports whether token names a live session.
func (d *Directory) Validate(_ context.Context, token string) (rpc.ValidateResult, error) {
	_, ok := d.lookup(token)
	return rpc.ValidateResult{OK: ok}, nil
}

// Register adds a user. The display name defaults to the username.
func (d *Directory) Register(_ context.Context, username, password, displayName string) (rpc.RegisterResult, error) {
	username = strings.TrimSpace(username)
	displayName = strings.TrimSpace(displayName)

	switch {
	case username == "":
		return rpc.RegisterResult{Message: MsgUsernameRequired}, nil
	case len(username) > maxUsernameLength:
		return rpc.RegisterResult{Message: MsgUsernameTooLong}, nil
	case len(displayName) > maxDisplayLength:
		return rpc.RegisterResult{Message: MsgDisplayNameTooLong}, nil
	case len([]rune(password)) < minPasswordLength:
		return rpc.RegisterResult{Message: MsgPasswordTooShort}, nil
	}
	if displayName == "" {
		displayName = username
	}

	if d.exists(username) {
		return rpc.RegisterResult{Message: MsgUsernameTaken}, nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		d.logger.Error("failed to hash password", "user", username, "error", err)
		return rpc.RegisterResult{}, errInternal
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	// Another registration may have won while hashing.
	if _, taken := d.users[username]; taken {
		return rpc.RegisterResult{Message: MsgUsernameTaken}, nil
	}
	d.users[username] = &account{displayName: displayName, passwordHash: hash}
	d.logger.Info("user registered", "user", username)
	return rpc.RegisterResult{OK: true, Message: MsgRegistered}, nil
}

// MyShift returns the shift of the user holding token.
func (d *Directory) MyShift(_ context.Context, token string) (rpc.ShiftResult, error) {
	username, ok := d.lookup(token)
	if !ok {
		return rpc.ShiftResult{Message: MsgSessionExpired}, nil
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	acct := d.users[username]
	if acct == nil {
		return rpc.ShiftResult{Message: MsgSessionExpired}, nil
	}
	if acct.shift == nil {
		return rpc.ShiftResult{OK: true, Message: MsgNoShift}, nil
	}
	shift := *acct.shift
	return rpc.ShiftResult{OK: true, Shift: &shift}, nil
}

func (d *Directory) exists(username string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.users[username]
	return ok
}

// issueToken creates a 256-bit random hex token for username.
func (d *Directory) issueToken(username string) (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	token := hex.EncodeToString(buf)

	d.mu.Lock()
	d.tokens[token] = tokenEntry{username: username, expiry: d.now().Add(d.ttl)}
	d.mu.Unlock()

	return token, nil
}

// lookup returns the user holding a live token.
func (d *Directory) lookup(token string) (string, bool) {
	if token == "" {
		return "", false
	}

	d.mu.RLock()
	entry, exists := d.tokens[token]
	d.mu.RUnlock()

	if !exists || !d.now().Before(entry.expiry) {
		return "", false
	}
	return entry.username, true
}

// sweep removes expired tokens and stale limiter entries.
func (d *Directory) sweep() {
	d.mu.Lock()
	now := d.now()
	for token, entry := range d.tokens {
		if !now.Before(entry.expiry) {
			delete(d.tokens, token)
		}
	}
	d.mu.Unlock()

	d.limiter.cleanup()
}

// runSweeper calls sweep every interval until ctx is cancelled.
func (d *Directory) runSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.sweep()
		}
	}
}

var _ rpc.Backend = (*Directory)(nil)

type clientIPKey struct{}

func withClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey{}, ip)
}

func clientIP(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey{}).(string)
	return ip
}
