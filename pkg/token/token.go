package token

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Entry is the backend's view of a session: the user id and the secret it
// issued at login. The Authorization header carries both as "<id>_<secret>".
type Entry struct {
	UserID int64
	Token  string
}

// Authentication returns the header value for e.
func (e Entry) Authentication() string {
	return strconv.FormatInt(e.UserID, 10) + "_" + e.Token
}

// Validate reports whether e can be rendered as a header value the backend
// will accept.
func (e Entry) Validate() error {
	if e.UserID < 0 {
		return fmt.Errorf("user id must not be negative")
	}
	if e.Token == "" {
		return errors.New("token is required")
	}
	if strings.Contains(e.Token, "_") {
		return errors.New("token must not contain '_'")
	}
	return nil
}

// Parse splits an Authorization value into its user id and secret.
func Parse(authentication string) (Entry, error) {
	if authentication == "" {
		return Entry{}, errors.New("empty authentication value")
	}
	parts := strings.Split(authentication, "_")
	if len(parts) != 2 {
		return Entry{}, fmt.Errorf("malformed authentication value: expected <user id>_<token>")
	}
	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return Entry{}, fmt.Errorf("parse user id: %w", err)
	}
	return Entry{UserID: id, Token: parts[1]}, nil
}
