package auth

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// OtpTTL is the validity window of a password-reset code.
	OtpTTL = 5 * time.Minute

	// otpKeyTTL garbage-collects abandoned records. Expiry itself is
	// decided by the record's ExpiresAt field at the moment of use, never
	// by redis; a stale record lingers until overwritten or consumed.
	otpKeyTTL = 24 * time.Hour
)

// OtpRecord is the one live password-reset code for an email address.
type OtpRecord struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the record's validity window has passed.
func (r OtpRecord) Expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

// GenerateOtpCode returns a uniformly random 6-digit numeric code.
func GenerateOtpCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// OtpStore keeps at most one live OtpRecord per email in Redis. Concurrent
// issues for the same email race on the upsert; last write wins and the
// earlier code becomes invalid.
type OtpStore struct {
	rdb *redis.Client
}

func NewOtpStore(rdb *redis.Client) *OtpStore {
	return &OtpStore{rdb: rdb}
}

func otpKey(email string) string { return "otp:" + email }

// Issue generates a fresh code and upserts the record for the email,
// replacing any prior code. Returns the code for out-of-band delivery.
func (s *OtpStore) Issue(ctx context.Context, email string) (string, error) {
	code, err := GenerateOtpCode()
	if err != nil {
		return "", err
	}
	rec := OtpRecord{Code: code, ExpiresAt: time.Now().Add(OtpTTL)}
	payload, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("marshal otp record: %w", err)
	}
	if err := s.rdb.Set(ctx, otpKey(email), payload, otpKeyTTL).Err(); err != nil {
		return "", fmt.Errorf("store otp record: %w", err)
	}
	return code, nil
}

// Get returns the live record for an email, or (nil, nil) when none exists.
func (s *OtpStore) Get(ctx context.Context, email string) (*OtpRecord, error) {
	payload, err := s.rdb.Get(ctx, otpKey(email)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var rec OtpRecord
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal otp record: %w", err)
	}
	return &rec, nil
}

// Delete consumes the record, terminating the reset flow for the email.
func (s *OtpStore) Delete(ctx context.Context, email string) error {
	return s.rdb.Del(ctx, otpKey(email)).Err()
}
