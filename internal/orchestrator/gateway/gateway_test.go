package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"luuno-orchestrator/internal/common/config"
	"luuno-orchestrator/internal/common/logger"
	"luuno-orchestrator/internal/models"
)

func createTestGateway(t *testing.T, baseURL string, mutate func(*Config)) *Gateway {
	t.Helper()
	cfg := &Config{
		BaseURL:       baseURL,
		Timeout:       2 * time.Second,
		CheckTimeout:  time.Second,
		MaxCandidates: 2,
		MaxConcurrent: 4,
		Options:       GenerationOptions{Temperature: 0.8, TopP: 0.9, TopK: 40, NumPredict: 1000},
	}
	if mutate != nil {
		mutate(cfg)
	}
	return NewGateway(cfg, logger.NewTestLogger(t))
}

// fakeOllama answers /api/generate from a per-model table.
type fakeOllama struct {
	mu        sync.Mutex
	replies   map[string]string
	status    map[string]int
	delay     map[string]time.Duration
	requests  []generateRequest
	callCount int32
}

func newFakeOllama() *fakeOllama {
	return &fakeOllama{
		replies: make(map[string]string),
		status:  make(map[string]int),
		delay:   make(map[string]time.Duration),
	}
}

func (f *fakeOllama) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&f.callCount, 1)

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	f.requests = append(f.requests, req)
	reply, status, delay := f.replies[req.Model], f.status[req.Model], f.delay[req.Model]
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}
	if status != 0 {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(generateResponse{Model: req.Model, Response: reply, Done: true})
}

func (f *fakeOllama) models() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.requests))
	for i, r := range f.requests {
		out[i] = r.Model
	}
	return out
}

func TestGateway_Candidates(t *testing.T) {
	tests := []struct {
		name      string
		requested string
		available []string
		cap       int
		expected  []string
	}{
		{"requested first", "mistral", []string{"llama3.2:latest", "mistral:7b"}, 2, []string{"mistral", "llama3.2"}},
		{"substring matches", "", []string{"llama3.2:latest"}, 2, []string{"llama3.2", "llama3"}},
		{"dedupe requested", "llama3.2", []string{"llama3.2:latest"}, 3, []string{"llama3.2", "llama3"}},
		{"fallback when nothing matches", "", []string{"phi3:mini"}, 2, []string{"llama2:7b"}},
		{"fallback on empty list", "", nil, 2, []string{"llama2:7b"}},
		{"cap of one", "", []string{"mistral:7b", "codellama:13b"}, 1, []string{"mistral"}},
		{"larger cap", "", []string{"mistral:7b", "codellama:13b"}, 5, []string{"mistral", "codellama"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := createTestGateway(t, "http://unused", func(c *Config) { c.MaxCandidates = tt.cap })
			got := g.Candidates(tt.requested, tt.available)

			names := make([]string, len(got))
			for i, c := range got {
				names[i] = c.Name
				assert.Equal(t, i, c.Rank)
			}
			assert.Equal(t, tt.expected, names)
		})
	}
}

func TestGateway_BuildPrompt(t *testing.T) {
	g := createTestGateway(t, "http://unused", nil)

	t.Run("short identity preamble", func(t *testing.T) {
		prompt := g.BuildPrompt("hello there", "", "mistral")
		assert.True(t, strings.HasPrefix(prompt, "You are the LUUNO AI - quantum-enhanced business automation platform."))
		assert.Contains(t, prompt, "Never call yourself \"Llama\".")
		assert.Contains(t, prompt, "Model: mistral")
		assert.True(t, strings.HasSuffix(prompt, "\n\nUser: hello there\n\nResponse:"))
	})

	t.Run("rich context used verbatim", func(t *testing.T) {
		ctxPrompt := "LUUNO identity " + strings.Repeat("x", 120)
		prompt := g.BuildPrompt("what next", ctxPrompt, "mistral")
		assert.Equal(t, ctxPrompt+"\n\nUser Question: what next\n\nLuuno AI Response:", prompt)
	})

	t.Run("short context ignored", func(t *testing.T) {
		prompt := g.BuildPrompt("what next", "LUUNO brief", "mistral")
		assert.Contains(t, prompt, "Model: mistral")
		assert.NotContains(t, prompt, "LUUNO brief")
	})

	t.Run("context without marker ignored", func(t *testing.T) {
		prompt := g.BuildPrompt("what next", strings.Repeat("y", 300), "mistral")
		assert.NotContains(t, prompt, "User Question:")
	})
}

func TestGateway_Validate(t *testing.T) {
	g := createTestGateway(t, "http://unused", nil)

	tests := []struct {
		name     string
		raw      string
		text     string
		accepted bool
	}{
		{"plain", "  Growth starts with focus.  ", "Growth starts with focus.", true},
		{"assistant prefix", "Assistant:   Ready.", "Ready.", true},
		{"empty", "   ", "", false},
		{"prefix only", "Assistant:", "", false},
		{"banned phrase", "As an AI, I cannot feel.", "As an AI, I cannot feel.", false},
		{"banned roleplay", "Sure *smiles* here you go", "Sure *smiles* here you go", false},
		{"banned quantum", "As a Quantum AI Assistant I help.", "As a Quantum AI Assistant I help.", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, reason := g.Validate("mistral", tt.raw)
			assert.Equal(t, tt.text, resp.Text)
			assert.Equal(t, tt.accepted, resp.Accepted)
			assert.Equal(t, "mistral", resp.Model)
			if tt.accepted {
				assert.Empty(t, reason)
			} else {
				assert.NotEmpty(t, reason)
			}
		})
	}
}

func TestGateway_Generate_Unavailable(t *testing.T) {
	fake := newFakeOllama()
	server := httptest.NewServer(fake)
	defer server.Close()

	g := createTestGateway(t, server.URL, nil)
	resp, err := g.Generate(context.Background(), GenerateRequest{
		Query:        "hello",
		Availability: models.Availability{Available: false, Models: []string{"mistral:7b"}},
	})

	require.NoError(t, err)
	assert.False(t, resp.Accepted)
	assert.Equal(t, int32(0), atomic.LoadInt32(&fake.callCount))
}

func TestGateway_Generate_FallsBackAfterRejection(t *testing.T) {
	fake := newFakeOllama()
	fake.replies["llama3.2"] = "As an AI, I am happy to help."
	fake.replies["mistral"] = "Assistant: Automate the follow-up first."
	server := httptest.NewServer(fake)
	defer server.Close()

	g := createTestGateway(t, server.URL, nil)
	resp, err := g.Generate(context.Background(), GenerateRequest{
		Query:        "how do I grow",
		Model:        "llama3.2",
		Availability: models.Availability{Available: true, Models: []string{"mistral:7b"}},
	})

	require.NoError(t, err)
	assert.True(t, resp.Accepted)
	assert.Equal(t, "Automate the follow-up first.", resp.Text)
	assert.Equal(t, "mistral", resp.Model)
	assert.Equal(t, []string{"llama3.2", "mistral"}, fake.models())

	sent := fake.requests[0]
	assert.False(t, sent.Stream)
	assert.Equal(t, GenerationOptions{Temperature: 0.8, TopP: 0.9, TopK: 40, NumPredict: 1000}, sent.Options)
	assert.Contains(t, sent.Prompt, "User: how do I grow")
}

func TestGateway_Generate_StopsAtCap(t *testing.T) {
	fake := newFakeOllama()
	fake.status["mistral"] = http.StatusInternalServerError
	fake.replies["codellama"] = "never asked"
	server := httptest.NewServer(fake)
	defer server.Close()

	g := createTestGateway(t, server.URL, func(c *Config) { c.MaxCandidates = 1 })
	resp, err := g.Generate(context.Background(), GenerateRequest{
		Query:        "hello",
		Availability: models.Availability{Available: true, Models: []string{"mistral:7b", "codellama:13b"}},
	})

	require.NoError(t, err)
	assert.False(t, resp.Accepted)
	assert.Empty(t, resp.Text)
	assert.Equal(t, []string{"mistral"}, fake.models())
}

func TestGateway_Generate_AllCandidatesFail(t *testing.T) {
	fake := newFakeOllama()
	fake.status["mistral"] = http.StatusInternalServerError
	fake.status["codellama"] = http.StatusNotFound
	server := httptest.NewServer(fake)
	defer server.Close()

	g := createTestGateway(t, server.URL, nil)
	resp, err := g.Generate(context.Background(), GenerateRequest{
		Query:        "hello",
		Availability: models.Availability{Available: true, Models: []string{"mistral:7b", "codellama:13b"}},
	})

	require.NoError(t, err)
	assert.False(t, resp.Accepted)
	assert.Equal(t, []string{"mistral", "codellama"}, fake.models())
}

func TestGateway_Generate_EmptyResponseRejected(t *testing.T) {
	fake := newFakeOllama()
	fake.replies["mistral"] = "   "
	server := httptest.NewServer(fake)
	defer server.Close()

	g := createTestGateway(t, server.URL, func(c *Config) { c.MaxCandidates = 1 })
	resp, err := g.Generate(context.Background(), GenerateRequest{
		Query:        "hello",
		Availability: models.Availability{Available: true, Models: []string{"mistral:7b"}},
	})

	require.NoError(t, err)
	assert.False(t, resp.Accepted)
}

func TestGateway_Generate_AttemptTimeout(t *testing.T) {
	fake := newFakeOllama()
	fake.delay["slowmodel"] = time.Second
	fake.replies["mistral"] = "Fast answer."
	server := httptest.NewServer(fake)
	defer server.Close()

	g := createTestGateway(t, server.URL, func(c *Config) { c.Timeout = 50 * time.Millisecond })
	resp, err := g.Generate(context.Background(), GenerateRequest{
		Query:        "hello",
		Model:        "slowmodel",
		Availability: models.Availability{Available: true, Models: []string{"mistral:7b"}},
	})

	require.NoError(t, err)
	assert.True(t, resp.Accepted)
	assert.Equal(t, "Fast answer.", resp.Text)
}

func TestGateway_Generate_CallerCancelled(t *testing.T) {
	fake := newFakeOllama()
	fake.delay["mistral"] = time.Second
	server := httptest.NewServer(fake)
	defer server.Close()

	g := createTestGateway(t, server.URL, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	resp, err := g.Generate(ctx, GenerateRequest{
		Query:        "hello",
		Availability: models.Availability{Available: true, Models: []string{"mistral:7b", "codellama:13b"}},
	})

	require.Error(t, err)
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, []string{"mistral"}, fake.models())
}

func TestGateway_Generate_ConcurrencyLimit(t *testing.T) {
	var current, peak int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&current, 1)
		defer atomic.AddInt32(&current, -1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		_ = json.NewEncoder(w).Encode(generateResponse{Response: "ok"})
	}))
	defer server.Close()

	g := createTestGateway(t, server.URL, func(c *Config) { c.MaxConcurrent = 2 })

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := g.Generate(context.Background(), GenerateRequest{
				Query:        "hello",
				Availability: models.Availability{Available: true, Models: []string{"mistral:7b"}},
			})
			assert.NoError(t, err)
			assert.True(t, resp.Accepted)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
	assert.GreaterOrEqual(t, atomic.LoadInt32(&peak), int32(1))
}

func TestNewGateway_Defaults(t *testing.T) {
	g := NewGateway(&Config{}, logger.NewNoOpLogger())
	assert.Equal(t, "http://localhost:11434", g.config.BaseURL)
	assert.Equal(t, 2, g.config.MaxCandidates)
	assert.Equal(t, "llama2:7b", g.config.FallbackModel)
	assert.Equal(t, "LUUNO", g.config.IdentityMarker)
	assert.Equal(t, 100, g.config.MinContextLength)
}

func TestConfigFromBackend(t *testing.T) {
	cfg := ConfigFromBackend(config.BackendConfig{
		OllamaURL:      "http://ollama:11434",
		Timeout:        1500,
		CheckTimeout:   250,
		MaxCandidates:  3,
		MaxConcurrent:  6,
		AttemptBackoff: 100,
		Options:        config.GenerationOptions{Temperature: 0.5, TopP: 0.7, TopK: 20, NumPredict: 200},
	})

	assert.Equal(t, "http://ollama:11434", cfg.BaseURL)
	assert.Equal(t, 1500*time.Millisecond, cfg.Timeout)
	assert.Equal(t, 250*time.Millisecond, cfg.CheckTimeout)
	assert.Equal(t, 3, cfg.MaxCandidates)
	assert.Equal(t, int64(6), cfg.MaxConcurrent)
	assert.Equal(t, 100*time.Millisecond, cfg.AttemptBackoff)
	assert.Equal(t, GenerationOptions{Temperature: 0.5, TopP: 0.7, TopK: 20, NumPredict: 200}, cfg.Options)
}
