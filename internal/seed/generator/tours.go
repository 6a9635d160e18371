package generator

import (
	"context"
	"fmt"
	"time"

	"github.com/launchfolio/launchfolio/internal/tour"
)

// createTourProgress marks onboarding progress: most investors finished
// the welcome tour, a few are mid-tour, and one opted out of intros.
func (g *Generator) createTourProgress(ctx context.Context) error {
	now := time.Now().UTC()
	for i, investor := range g.investors {
		switch i % 3 {
		case 0:
			if err := g.tours.AddCompletion(ctx, investor.ID, "welcome-tour", now.Add(-time.Duration(i+1)*24*time.Hour)); err != nil {
				return fmt.Errorf("record completion: %w", err)
			}
		case 1:
			if err := g.tours.PutActive(ctx, investor.ID, "investing-basics", 1+i%3); err != nil {
				return fmt.Errorf("record active tour: %w", err)
			}
		default:
			prefs := tour.DefaultPreferences()
			prefs.SkipIntros = true
			if err := g.tours.PutPreferences(ctx, investor.ID, prefs); err != nil {
				return fmt.Errorf("record preferences: %w", err)
			}
		}
	}
	g.logf("Recorded tour progress for %d investors\n", len(g.investors))
	return nil
}
