package validators

import (
	"context"
	"net"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Status string `binding:"omitempty,asset_status"`
	Role   string `binding:"omitempty,profile_role"`
	Day    string `binding:"omitempty,date"`
}

func TestRegisteredTags(t *testing.T) {
	require.NoError(t, Register())

	assert.NoError(t, binding.Validator.ValidateStruct(&sample{Status: "Booked", Role: "admin", Day: "2024-01-31"}))
	assert.Error(t, binding.Validator.ValidateStruct(&sample{Status: "Lost"}))
	assert.Error(t, binding.Validator.ValidateStruct(&sample{Role: "root"}))
	assert.Error(t, binding.Validator.ValidateStruct(&sample{Day: "2024-02-31"}))
}

type fakeResolver struct {
	mx    map[string]bool
	hosts map[string]bool
}

func (f fakeResolver) LookupMX(_ context.Context, name string) ([]*net.MX, error) {
	if f.mx[name] {
		return []*net.MX{{Host: "mail." + name, Pref: 10}}, nil
	}
	return nil, &net.DNSError{Err: "no such host", Name: name, IsNotFound: true}
}

func (f fakeResolver) LookupHost(_ context.Context, host string) ([]string, error) {
	if f.hosts[host] {
		return []string{"192.0.2.1"}, nil
	}
	return nil, &net.DNSError{Err: "no such host", Name: host, IsNotFound: true}
}

func TestEmailDomainResolves(t *testing.T) {
	r := fakeResolver{
		mx:    map[string]bool{"mail.test": true},
		hosts: map[string]bool{"web.test": true},
	}
	ctx := context.Background()

	assert.True(t, EmailDomainResolves(ctx, r, "a@mail.test"))
	assert.True(t, EmailDomainResolves(ctx, r, "a@web.test."))
	assert.False(t, EmailDomainResolves(ctx, r, "a@nowhere.test"))
	assert.False(t, EmailDomainResolves(ctx, r, "no-at-sign"))
	assert.False(t, EmailDomainResolves(ctx, r, "trailing@"))
	assert.False(t, EmailDomainResolves(ctx, r, "@leading.test"))
}
