package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"github.com/termsql/termsql/alert"
	"xorkevin.dev/kerrors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".termsql.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
alert_mode: write
max_rows: 50
connections:
  - name: local
    type: sqlite3
    path: app.db
  - name: prod
    type: postgres
    host: db.example.com
    port: 5432
    user: app
    database: app
    sslmode: require
`)

	s, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, alert.ModeConfirmWrite, s.AlertModeValue())
	require.Equal(t, 50, s.MaxRows)
	require.Len(t, s.Connections, 2)

	conn, err := s.Connection("prod")
	require.NoError(t, err)
	require.Equal(t, "postgres", conn.Type)
	require.Equal(t, 5432, conn.Port)
	require.Equal(t, "require", conn.SSLMode)

	_, err = s.Connection("missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	s, err := Load("")
	require.NoError(t, err)
	require.Equal(t, DefaultAlertMode, s.AlertMode)
	require.Equal(t, DefaultMaxRows, s.MaxRows)
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.ErrorIs(t, err, ErrInvalid)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name string
		s    Settings
		ok   bool
	}{
		{
			name: "valid",
			s: Settings{
				AlertMode: "off",
				Connections: []Connection{
					{Name: "a", Type: "sqlite3"},
				},
			},
			ok: true,
		},
		{
			name: "bad alert mode",
			s:    Settings{AlertMode: "loud"},
			ok:   false,
		},
		{
			name: "negative max rows",
			s:    Settings{AlertMode: "off", MaxRows: -1},
			ok:   false,
		},
		{
			name: "missing connection name",
			s: Settings{
				AlertMode:   "off",
				Connections: []Connection{{Type: "sqlite3"}},
			},
			ok: false,
		},
		{
			name: "duplicate connection name",
			s: Settings{
				AlertMode: "off",
				Connections: []Connection{
					{Name: "a", Type: "sqlite3"},
					{Name: "a", Type: "postgres"},
				},
			},
			ok: false,
		},
		{
			name: "missing connection type",
			s: Settings{
				AlertMode:   "off",
				Connections: []Connection{{Name: "a"}},
			},
			ok: false,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := tc.s.Validate()
			if tc.ok {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, ErrInvalid)
			}
		})
	}
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "tester",
		"exp": exp.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestCheckToken(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	conn := Connection{Name: "prod", Token: signedToken(t, now.Add(time.Hour))}
	require.NoError(t, conn.CheckToken(now))

	conn.Token = signedToken(t, now.Add(-time.Hour))
	err := conn.CheckToken(now)
	require.ErrorIs(t, err, ErrTokenExpired)
	require.ErrorIs(t, kerrors.WithMsg(err, "wrapped"), ErrTokenExpired)

	conn.Token = ""
	require.NoError(t, conn.CheckToken(now))

	conn.Token = "opaque-api-key"
	require.NoError(t, conn.CheckToken(now))
}
