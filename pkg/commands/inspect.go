package commands

// Items is the number of order instructions cmd carries: the batch length
// for BatchMarketInstructions, 1 for any other variant.
func Items(cmd Command) int {
	switch c := deref(cmd).(type) {
	case nil:
		return 0
	case BatchMarketInstructions:
		return c.Len()
	default:
		return 1
	}
}

// MarketIDs returns the distinct market ids cmd touches, in first-seen order.
// Votes touch no market.
func MarketIDs(cmd Command) []string {
	var ids []string
	seen := make(map[string]struct{})
	add := func(id string) {
		if id == "" {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	switch c := deref(cmd).(type) {
	case OrderSubmission:
		add(c.MarketID)
	case OrderCancellation:
		add(c.MarketID)
	case OrderAmendment:
		add(c.MarketID)
	case BatchMarketInstructions:
		for _, x := range c.Cancellations {
			add(x.MarketID)
		}
		for _, x := range c.Amendments {
			add(x.MarketID)
		}
		for _, x := range c.Submissions {
			add(x.MarketID)
		}
	}
	return ids
}

func deref(cmd Command) Command {
	if isNil(cmd) {
		return nil
	}
	switch c := cmd.(type) {
	case *BatchMarketInstructions:
		return *c
	case *OrderSubmission:
		return *c
	case *OrderCancellation:
		return *c
	case *OrderAmendment:
		return *c
	case *VoteSubmission:
		return *c
	default:
		return cmd
	}
}
