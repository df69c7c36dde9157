package llm

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/abolfazl2800140/Gym-handler-Desktop/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeChat struct {
	text  string
	err   error
	panic bool
	calls []domain.CompletionRequest
}

func (f *fakeChat) Chat(ctx context.Context, req domain.CompletionRequest) (string, error) {
	f.calls = append(f.calls, req)
	if f.panic {
		panic("primary exploded")
	}
	return f.text, f.err
}

type loaderStub struct {
	mu      sync.Mutex
	engines map[string]Engine
	errs    map[string]error
	loads   []string
}

func (l *loaderStub) Load(ctx context.Context, model string) (Engine, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loads = append(l.loads, model)
	if err := l.errs[model]; err != nil {
		return nil, err
	}
	return l.engines[model], nil
}

type tierLog struct {
	tiers []string
	oks   []bool
}

func (o *tierLog) ObserveTier(tier string, ok bool) {
	o.tiers = append(o.tiers, tier)
	o.oks = append(o.oks, ok)
}

var askHello = domain.CompletionRequest{
	System:      "sys",
	Messages:    []domain.Message{{Role: domain.RoleUser, Content: "hello"}},
	Temperature: 0.2,
}

func newTestGateway(primary ChatBackend, loader *loaderStub) *Gateway {
	return NewGateway(primary, NewSharedEngine(loader, zap.NewNop()), "qwen", "tiny", zap.NewNop())
}

func TestGateway_PrimarySucceeds(t *testing.T) {
	primary := &fakeChat{text: " answer "}
	loader := &loaderStub{}

	res := newTestGateway(primary, loader).Complete(context.Background(), askHello)

	assert.Equal(t, domain.CompletionResult{OK: true, Text: "answer", Tier: TierPrimary}, res)
	assert.Empty(t, loader.loads, "secondary must not be touched when primary answers")
}

func TestGateway_FallsThroughToPreferred(t *testing.T) {
	primary := &fakeChat{err: ErrUpstreamUnavailable}
	qwen := &fakeEngine{text: "from qwen"}
	loader := &loaderStub{engines: map[string]Engine{"qwen": qwen}}

	res := newTestGateway(primary, loader).Complete(context.Background(), askHello)

	require.True(t, res.OK)
	assert.Equal(t, "from qwen", res.Text)
	assert.Equal(t, TierSecondaryPreferred, res.Tier)
	require.Len(t, qwen.prompts, 1)
	assert.Equal(t, "سیستم: sys\nکاربر: hello\nدستیار:", qwen.prompts[0])
	assert.Equal(t, GenerateOptions{MaxTokens: 256, Temperature: 0.2}, qwen.opts[0])
}

func TestGateway_PreferredLoadFailsUsesFallback(t *testing.T) {
	primary := &fakeChat{err: ErrUpstreamUnavailable}
	tiny := &fakeEngine{text: "from tiny"}
	loader := &loaderStub{
		engines: map[string]Engine{"tiny": tiny},
		errs:    map[string]error{"qwen": errors.New("out of memory")},
	}
	obs := &tierLog{}
	g := newTestGateway(primary, loader)
	g.SetObserver(obs)

	res := g.Complete(context.Background(), askHello)

	assert.Equal(t, domain.CompletionResult{OK: true, Text: "from tiny", Tier: TierSecondaryFallback}, res)
	assert.Equal(t, []string{"qwen", "tiny"}, loader.loads)
	assert.Equal(t, []string{TierPrimary, TierSecondaryPreferred, TierSecondaryFallback}, obs.tiers)
	assert.Equal(t, []bool{false, false, true}, obs.oks)
}

func TestGateway_FallbackReusedWithoutReloadingPreferred(t *testing.T) {
	primary := &fakeChat{err: ErrUpstreamUnavailable}
	loader := &loaderStub{
		engines: map[string]Engine{"tiny": &fakeEngine{text: "from tiny"}},
		errs:    map[string]error{"qwen": errors.New("out of memory")},
	}
	g := newTestGateway(primary, loader)

	for i := 0; i < 3; i++ {
		res := g.Complete(context.Background(), askHello)
		require.True(t, res.OK)
		assert.Equal(t, TierSecondaryFallback, res.Tier)
	}

	assert.Equal(t, []string{"qwen", "tiny"}, loader.loads)
}

func TestGateway_AllTiersFail(t *testing.T) {
	primary := &fakeChat{err: ErrUpstreamUnavailable}
	loader := &loaderStub{
		engines: map[string]Engine{"qwen": &fakeEngine{err: errors.New("bad tensor")}},
		errs:    map[string]error{"tiny": errors.New("missing")},
	}

	res := newTestGateway(primary, loader).Complete(context.Background(), askHello)

	assert.False(t, res.OK)
	assert.Empty(t, res.Text)
	assert.NotEmpty(t, res.Error)
	assert.Contains(t, res.Error, TierPrimary)
	assert.Contains(t, res.Error, TierSecondaryFallback)
}

func TestGateway_EmptyTextAdvances(t *testing.T) {
	primary := &fakeChat{text: "   "}
	loader := &loaderStub{engines: map[string]Engine{"qwen": &fakeEngine{text: "real"}}}

	res := newTestGateway(primary, loader).Complete(context.Background(), askHello)

	assert.Equal(t, TierSecondaryPreferred, res.Tier)
	assert.Equal(t, "real", res.Text)
}

func TestGateway_PanicsDoNotEscape(t *testing.T) {
	primary := &fakeChat{panic: true}
	loader := &loaderStub{engines: map[string]Engine{
		"qwen": &fakeEngine{panic: true},
		"tiny": &fakeEngine{text: "survived"},
	}}

	var res domain.CompletionResult
	require.NotPanics(t, func() {
		res = newTestGateway(primary, loader).Complete(context.Background(), askHello)
	})
	assert.Equal(t, TierSecondaryFallback, res.Tier)
}

func TestGateway_ClampsMaxTokens(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, 256},
		{8, 32},
		{4096, 1024},
		{300, 300},
	}
	for _, tt := range tests {
		primary := &fakeChat{text: "ok"}
		req := askHello
		req.MaxTokens = tt.in
		NewGateway(primary, nil, "", "", zap.NewNop()).Complete(context.Background(), req)
		require.Len(t, primary.calls, 1)
		assert.Equal(t, tt.want, primary.calls[0].MaxTokens, "max tokens %d", tt.in)
	}
}

func TestGateway_NoBackends(t *testing.T) {
	g := NewGateway(nil, nil, "qwen", "tiny", zap.NewNop())
	assert.Empty(t, g.Tiers())

	res := g.Complete(context.Background(), askHello)
	assert.False(t, res.OK)
	assert.Equal(t, ErrNoBackends.Error(), res.Error)
}

func TestGateway_StopsWhenCallerCancels(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	primary := &fakeChat{err: ErrUpstreamUnavailable}
	loader := &loaderStub{engines: map[string]Engine{"qwen": &fakeEngine{text: "late"}}}
	cancel()

	res := newTestGateway(primary, loader).Complete(ctx, askHello)

	assert.False(t, res.OK)
	assert.Empty(t, loader.loads)
	assert.True(t, strings.Contains(res.Error, TierPrimary))
}

func TestGateway_Tiers(t *testing.T) {
	g := NewGateway(&fakeChat{}, NewSharedEngine(&loaderStub{}, zap.NewNop()), "qwen", "", zap.NewNop())
	assert.Equal(t, []string{TierPrimary, TierSecondaryPreferred}, g.Tiers())
}
