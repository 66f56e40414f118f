// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/pollbox/middleware"
	"github.com/danielhkuo/pollbox/models"
	"github.com/danielhkuo/pollbox/store"
)

// GetResults handles GET /polls/{id}/results
// Results are always public; there is no sealed phase.
func (h *PollHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	pollID, poll, ok := h.lookup(w, r)
	if !ok {
		return
	}

	results := Tally(poll.Options(), poll.Votes())
	results.PollID = pollID

	middleware.JSONResponse(w, http.StatusOK, results)
}

// Tally counts yes and no answers per option. Leaders are the options with
// the most yes answers, in option order; there are none until someone
// answers yes.
func Tally(options []string, votes []store.Vote) models.PollResults {
	res := models.PollResults{
		TotalVotes: len(votes),
		Tally:      make([]models.OptionTally, len(options)),
		Leaders:    []string{},
	}

	for i, opt := range options {
		res.Tally[i].Option = opt
	}
	for _, v := range votes {
		for i, yes := range v.Choices {
			if i >= len(options) {
				break
			}
			if yes {
				res.Tally[i].Yes++
			} else {
				res.Tally[i].No++
			}
		}
	}

	best := 0
	for _, t := range res.Tally {
		best = max(best, t.Yes)
	}
	if best == 0 {
		return res
	}
	for _, t := range res.Tally {
		if t.Yes == best {
			res.Leaders = append(res.Leaders, t.Option)
		}
	}
	return res
}
