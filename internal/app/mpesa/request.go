package mpesa

import (
	"encoding/base64"
	"time"
)

const timestampLayout = "20060102150405"

// Timestamp formats t in the gateway's YYYYMMDDHHmmss layout using local time.
func Timestamp(t time.Time) string {
	return t.Local().Format(timestampLayout)
}

// Password derives the STK push password from the merchant short code, passkey and timestamp.
func Password(shortCode, passKey, timestamp string) string {
	return base64.StdEncoding.EncodeToString([]byte(shortCode + passKey + timestamp))
}

type Credentials struct {
	ShortCode string
	PassKey   string
}

type Builder struct {
	creds Credentials
	now   func() time.Time
}

func NewBuilder(creds Credentials, now func() time.Time) *Builder {
	if now == nil {
		now = time.Now
	}

	return &Builder{
		creds: creds,
		now:   now,
	}
}

func (b *Builder) Timestamp() string {
	return Timestamp(b.now())
}

// Sign returns a fresh timestamp and the password derived from it.
func (b *Builder) Sign() (timestamp, password string) {
	timestamp = b.Timestamp()
	return timestamp, Password(b.creds.ShortCode, b.creds.PassKey, timestamp)
}

func (b *Builder) ShortCode() string {
	return b.creds.ShortCode
}
