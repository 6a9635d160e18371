package generator

import (
	"context"
	"fmt"

	"github.com/launchfolio/launchfolio/internal/support"
)

var ticketPriorities = []support.TicketPriority{
	support.TicketPriorityLow,
	support.TicketPriorityNormal,
	support.TicketPriorityNormal,
	support.TicketPriorityHigh,
	support.TicketPriorityUrgent,
}

// createSupportTickets opens a ticket per investor and works a subset
// through the operator queue so every lifecycle state appears.
func (g *Generator) createSupportTickets(ctx context.Context) error {
	for i, investor := range g.investors {
		ticket, err := g.support.Open(ctx, support.CreateTicketInput{
			AuthorID: investor.ID,
			Subject:  g.namer.ticketSubject(),
			Body:     fmt.Sprintf("Hi, this is %s. Could someone take a look?", investor.DisplayName),
			Priority: ticketPriorities[i%len(ticketPriorities)],
		})
		if err != nil {
			return fmt.Errorf("open ticket for %s: %w", investor.DisplayName, err)
		}

		// Every third ticket stays untouched in the open queue.
		if i%3 == 0 {
			continue
		}

		if _, err := g.support.Assign(ctx, ticket.ID, g.operator.ID); err != nil {
			return fmt.Errorf("assign ticket: %w", err)
		}
		if _, err := g.support.Transition(ctx, ticket.ID, support.TicketStatusInProgress); err != nil {
			return fmt.Errorf("start ticket: %w", err)
		}
		if _, err := g.support.Reply(ctx, ticket.ID, g.operator.ID, "Thanks for reaching out, looking into this now.", true); err != nil {
			return fmt.Errorf("reply to ticket: %w", err)
		}

		if i%3 == 2 {
			if _, err := g.support.Reply(ctx, ticket.ID, investor.ID, "That fixed it, thank you!", false); err != nil {
				return fmt.Errorf("author reply: %w", err)
			}
			if _, err := g.support.Transition(ctx, ticket.ID, support.TicketStatusResolved); err != nil {
				return fmt.Errorf("resolve ticket: %w", err)
			}
		}
	}
	g.logf("Created %d support tickets\n", len(g.investors))
	return nil
}
