package cache

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strconv"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/singleflight"

	"kidsflow/internal/domain"
)

// GenerateFunc produce sugerencias para un perfil; la llama el cache solo en miss.
type GenerateFunc func(ctx context.Context, model string, age *int, features []string) ([]domain.PromptSuggestion, error)

// ProfileHash es la clave del cache: hash de (edad, features ordenadas).
func ProfileHash(age *int, features []string) string {
	sorted := append([]string{}, features...)
	sort.Strings(sorted)
	// JSON delimita cada id, así "a,b" no colisiona con "a" y "b".
	payload, _ := json.Marshal(struct {
		Age      *int     `json:"age"`
		Features []string `json:"features"`
	}{age, sorted})
	sum := blake2b.Sum256(payload)
	return hex.EncodeToString(sum[:16])
}

// SuggestionCache memoiza sugerencias por hash de perfil durante la sesión.
// Un miss dispara exactamente una generación por clave; los llamadores
// concurrentes esperan el mismo resultado.
type SuggestionCache struct {
	logger     *zap.Logger
	mu         sync.Mutex
	entries    map[string][]domain.PromptSuggestion
	generation uint64
	flight     singleflight.Group
}

func NewSuggestionCache(logger *zap.Logger) *SuggestionCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SuggestionCache{
		logger:  logger,
		entries: make(map[string][]domain.PromptSuggestion),
	}
}

// Lookup devuelve el valor cacheado sin generar.
func (c *SuggestionCache) Lookup(age *int, features []string) ([]domain.PromptSuggestion, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[ProfileHash(age, features)]
	if !ok {
		return nil, false
	}
	return append([]domain.PromptSuggestion{}, v...), true
}

// Get devuelve las sugerencias cacheadas o las genera. Los errores no se
// memoizan: el siguiente llamado vuelve a intentar.
func (c *SuggestionCache) Get(ctx context.Context, age *int, features []string, model string, gen GenerateFunc) ([]domain.PromptSuggestion, error) {
	hash := ProfileHash(age, features)

	c.mu.Lock()
	if cached, ok := c.entries[hash]; ok {
		c.mu.Unlock()
		c.logger.Debug("suggestions cache hit", zap.String("hash", hash), zap.Int("count", len(cached)))
		return append([]domain.PromptSuggestion{}, cached...), nil
	}
	gen0 := c.generation
	c.mu.Unlock()

	fetchCtx := context.WithoutCancel(ctx)
	v, err, shared := c.flight.Do(hash+"#"+strconv.FormatUint(gen0, 10), func() (interface{}, error) {
		// Otro vuelo pudo terminar entre el miss y este punto.
		c.mu.Lock()
		if cached, ok := c.entries[hash]; ok {
			c.mu.Unlock()
			return cached, nil
		}
		c.mu.Unlock()

		c.logger.Debug("generating suggestions", zap.String("hash", hash), zap.String("model", model))
		suggestions, err := gen(fetchCtx, model, age, append([]string{}, features...))
		if err != nil {
			return nil, err
		}
		if suggestions == nil {
			suggestions = []domain.PromptSuggestion{}
		}
		c.mu.Lock()
		if c.generation == gen0 {
			c.entries[hash] = suggestions
		}
		c.mu.Unlock()
		return suggestions, nil
	})
	if shared {
		c.logger.Debug("suggestions deduplicated", zap.String("hash", hash))
	}
	if err != nil {
		return nil, err
	}
	return append([]domain.PromptSuggestion{}, v.([]domain.PromptSuggestion)...), nil
}

// Clear vacía el cache (logout). Generaciones en vuelo no escriben su resultado.
func (c *SuggestionCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string][]domain.PromptSuggestion)
	c.generation++
}

// Len devuelve la cantidad de perfiles cacheados.
func (c *SuggestionCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
