package redis

import (
	"testing"

	"github.com/westwooddairy/storefront-backend/pkg/config"
)

func TestOptionsFromConfigPrefersURL(t *testing.T) {
	cfg := config.RedisConfig{
		URL:     "redis://:secret@redis.internal:6380/2",
		Address: "ignored:6379",
	}
	opts, err := optionsFromConfig(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "redis.internal:6380" {
		t.Fatalf("unexpected addr %q", opts.Addr)
	}
	if opts.DB != 2 {
		t.Fatalf("unexpected db %d", opts.DB)
	}
	if opts.Password != "secret" {
		t.Fatalf("password not parsed from url")
	}
}

func TestOptionsFromConfigRequiresTarget(t *testing.T) {
	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatalf("expected error when neither url nor address set")
	}
}

func TestKeyBuilding(t *testing.T) {
	c := &Client{}
	if got := c.IdempotencyKey("paystack-webhook", "charge.success:ref1"); got != "ww:idempotency:paystack-webhook:charge.success:ref1" {
		t.Fatalf("unexpected idempotency key %q", got)
	}
	if got := c.CartKey("westwood-cart"); got != "ww:cart:westwood-cart" {
		t.Fatalf("unexpected cart key %q", got)
	}
}
