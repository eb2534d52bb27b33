package api

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Tone selects the voice of generated tweets.
type Tone string

const (
	ToneProfessional  Tone = "professional"
	ToneCasual        Tone = "casual"
	ToneWitty         Tone = "witty"
	ToneInspirational Tone = "inspirational"
)

// ParseTone validates a tone value.
func ParseTone(s string) (Tone, error) {
	switch Tone(s) {
	case ToneProfessional, ToneCasual, ToneWitty, ToneInspirational:
		return Tone(s), nil
	default:
		return "", fmt.Errorf("unknown tone %q (professional, casual, witty, inspirational)", s)
	}
}

// GenerationType selects between one tweet and a thread.
type GenerationType string

const (
	GenerationSingle GenerationType = "single"
	GenerationThread GenerationType = "thread"
)

// ParseGenerationType validates a generation type value.
func ParseGenerationType(s string) (GenerationType, error) {
	switch GenerationType(s) {
	case GenerationSingle, GenerationThread:
		return GenerationType(s), nil
	default:
		return "", fmt.Errorf("unknown generation type %q (single, thread)", s)
	}
}

// GenerationRequest asks the backend to generate tweets about a topic.
type GenerationRequest struct {
	Topic          string         `json:"topic"`
	Tone           Tone           `json:"tone"`
	GenerationType GenerationType `json:"generationType"`
}

// GenerationResult always carries either tweets or an error message,
// never both and never neither.
type GenerationResult struct {
	Tweets []string `json:"tweets"`
	Error  string   `json:"error,omitempty"`
}

// GeneratorClient talks to the AI tweet generation endpoint.
type GeneratorClient struct {
	c *httpClient
}

// GenerateTweets generates tweets for the request. It always resolves
// to a result value, validation and remote failures populate the Error
// field instead of being raised.
func (g *GeneratorClient) GenerateTweets(ctx context.Context, req GenerationRequest) GenerationResult {
	if req.Topic == "" {
		return GenerationResult{Tweets: []string{}, Error: "topic must not be empty"}
	}
	if _, err := ParseTone(string(req.Tone)); err != nil {
		return GenerationResult{Tweets: []string{}, Error: err.Error()}
	}
	if _, err := ParseGenerationType(string(req.GenerationType)); err != nil {
		return GenerationResult{Tweets: []string{}, Error: err.Error()}
	}

	var resp GenerationResult
	if err := g.c.postJSON(ctx, "/ai/generate-tweets", req, &resp); err != nil {
		log.Debug().Err(err).Str("topic", req.Topic).Msg("tweet generation failed")
		return GenerationResult{Tweets: []string{}, Error: err.Error()}
	}

	// Normalize the server's answer to the one-of contract.
	if resp.Error != "" {
		return GenerationResult{Tweets: []string{}, Error: resp.Error}
	}
	if len(resp.Tweets) == 0 {
		return GenerationResult{Tweets: []string{}, Error: "generation service returned no tweets"}
	}

	return GenerationResult{Tweets: resp.Tweets}
}
