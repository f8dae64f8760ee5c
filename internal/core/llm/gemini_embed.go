package llm

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/mentora-labs/mentora/internal/core"
)

// GeminiEmbedder wraps the Gemini embedding call. Every request asks for the
// reduced output dimensionality explicitly: the model's native width exceeds
// the store's vector(768) column, and the provider only truncates when told to.
//
// The limiter is shared by everyone holding this embedder, so the courtesy
// interval between calls holds even when batch ingestion fans out across
// goroutines.
type GeminiEmbedder struct {
	client    *genai.Client
	modelName string
	dim       int32
	limiter   *rate.Limiter
}

func NewGeminiEmbedder(ctx context.Context, apiKey, modelName string, dim int, limiter *rate.Limiter) (*GeminiEmbedder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("embedding API key is empty")
	}
	cl, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	if modelName == "" {
		modelName = "gemini-embedding-001"
	}
	if dim <= 0 {
		dim = 768
	}
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}
	return &GeminiEmbedder{client: cl, modelName: modelName, dim: int32(dim), limiter: limiter}, nil
}

// EmbedText embeds a single text and returns the reduced-width vector.
func (g *GeminiEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := g.client.Models.EmbedContent(ctx, g.modelName,
		genai.Text(text),
		&genai.EmbedContentConfig{
			OutputDimensionality: genai.Ptr(g.dim),
		})
	if err != nil {
		return nil, fmt.Errorf("gemini embed: %w", err)
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Values) == 0 {
		return nil, fmt.Errorf("gemini embed: empty embedding returned")
	}

	vec := resp.Embeddings[0].Values
	if len(vec) != int(g.dim) {
		return nil, fmt.Errorf("gemini embed: got %d dims, want %d", len(vec), g.dim)
	}
	return vec, nil
}

var _ core.EmbeddingProvider = (*GeminiEmbedder)(nil)
