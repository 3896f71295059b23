package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGateConfig(t *testing.T) {
	tests := []struct {
		name       string
		hash       string
		bcryptCost string
		wantKind   HashKind
		wantErr    bool
	}{
		{name: "unset", wantKind: HashNone},
		{name: "sha256", hash: SHA256Hex("secret"), wantKind: HashSHA256},
		{name: "sha256 upper case", hash: strings.ToUpper(SHA256Hex("secret")), wantKind: HashSHA256},
		{name: "bcrypt", hash: "$2a$10$abcdefghijklmnopqrstuuN0y0iTqWCR0YzX5p0yX1bF0uS0iT0ea", wantKind: HashBcrypt},
		{name: "garbage hash", hash: "not-a-hash", wantErr: true},
		{name: "cost too low", bcryptCost: "9", wantErr: true},
		{name: "invalid cost", bcryptCost: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("APP_PW_HASH", tt.hash)
			t.Setenv("BCRYPT_COST", tt.bcryptCost)

			cfg, err := NewGateConfig()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, cfg.Kind())
			assert.Equal(t, tt.hash != "", cfg.Configured())
		})
	}
}

func TestGateConfig_VerifySHA256(t *testing.T) {
	cfg := &GateConfig{Hash: SHA256Hex("open sesame"), BcryptCost: 10}

	assert.True(t, cfg.VerifyPassword("open sesame"))
	assert.False(t, cfg.VerifyPassword("open sesame "))
	assert.False(t, cfg.VerifyPassword(""))
}

func TestGateConfig_VerifyBcrypt(t *testing.T) {
	cfg := &GateConfig{BcryptCost: 10}
	hash, err := cfg.HashPassword("open sesame", HashBcrypt)
	require.NoError(t, err)
	cfg.Hash = hash

	assert.Equal(t, HashBcrypt, cfg.Kind())
	assert.True(t, cfg.VerifyPassword("open sesame"))
	assert.False(t, cfg.VerifyPassword("wrong"))
}

func TestGateConfig_UnconfiguredNeverMatches(t *testing.T) {
	var nilCfg *GateConfig
	assert.False(t, nilCfg.VerifyPassword(""))
	assert.False(t, (&GateConfig{}).VerifyPassword(""))
}

func TestSHA256Hex(t *testing.T) {
	// echo -n "password" | sha256sum
	assert.Equal(t, "5e884898da28047151d0e56f8dc6292773603d0d6aabbdd62a11ef721d1542d8", SHA256Hex("password"))
}

func TestHashPassword_UnsupportedKind(t *testing.T) {
	_, err := (&GateConfig{BcryptCost: 10}).HashPassword("x", "md5")
	assert.Error(t, err)
}
