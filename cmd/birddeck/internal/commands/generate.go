package commands

import (
	"context"
	"fmt"

	"github.com/birddeck/birddeck/internal/api"
)

type GenerateCmd struct {
	Topic string `arg:"" help:"Topic to generate tweets about"`
	Tone  string `help:"Tone: professional, casual, witty or inspirational" default:"professional"`
	Type  string `help:"Generation type: single or thread" default:"single"`
}

func (g *GenerateCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}

	if err := app.requireSession(ctx); err != nil {
		return err
	}

	tone, err := api.ParseTone(g.Tone)
	if err != nil {
		return err
	}

	generationType, err := api.ParseGenerationType(g.Type)
	if err != nil {
		return err
	}

	result := app.clients.Generator.GenerateTweets(ctx, api.GenerationRequest{
		Topic:          g.Topic,
		Tone:           tone,
		GenerationType: generationType,
	})
	if result.Error != "" {
		return fmt.Errorf("generation failed: %s", result.Error)
	}

	for i, tweet := range result.Tweets {
		if len(result.Tweets) > 1 {
			fmt.Printf("%d/%d\n", i+1, len(result.Tweets))
		}
		fmt.Println(tweet)
		fmt.Println()
	}

	return nil
}
