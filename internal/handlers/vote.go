package handlers

import (
	"net/http"

	"voting_app/internal/service"

	"github.com/gin-gonic/gin"
)

type castVoteInput struct {
	CandidateID int `json:"candidateId" binding:"required"`
}

// @Summary      Cast a vote
// @Description  Records the caller's single vote. The ledger re-checks vote status atomically; a stale token claim cannot produce a second vote.
// @Tags         vote
// @Accept       json
// @Produce      json
// @Param        body  body  castVoteInput  true  "Candidate choice"
// @Success      200   {object}  map[string]interface{}  "message, hasVoted"
// @Failure      400   {object}  map[string]string  "unknown candidate or bad body"
// @Failure      401   {object}  map[string]string
// @Failure      409   {object}  map[string]string  "already voted"
// @Failure      500   {object}  map[string]string
// @Router       /api/vote/vote [post]
// @Security     BearerAuth
func (h *Handler) castVote(c *gin.Context) {
	var input castVoteInput
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	userID := c.GetInt(ctxUserID)

	result, err := h.services.CastVote(c.Request.Context(), userID, input.CandidateID)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("vote_cast_failed", "userId", userID, "candidateId", input.CandidateID, "err", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to cast vote"})
		return
	}

	switch result {
	case service.VoteAccepted:
		c.JSON(http.StatusOK, gin.H{"message": "vote recorded", "hasVoted": true})
	case service.VoteAlreadyCast:
		c.JSON(http.StatusConflict, gin.H{"error": "you have already voted"})
	case service.VoteUnknownCandidate:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown candidate"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unexpected vote result"})
	}
}

// @Summary      List candidates
// @Tags         vote
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "candidates"
// @Failure      500  {object}  map[string]string
// @Router       /api/vote/candidates [get]
func (h *Handler) getCandidates(c *gin.Context) {
	candidates, err := h.services.Candidates(c.Request.Context())
	if err != nil {
		if h.log != nil {
			h.log.Errorw("vote_list_candidates_failed", "err", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load candidates"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"candidates": candidates})
}

// @Summary      List voters
// @Description  Public roll of who voted for whom, oldest first.
// @Tags         vote
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "voters"
// @Failure      500  {object}  map[string]string
// @Router       /api/vote/voters [get]
func (h *Handler) getVoters(c *gin.Context) {
	voters, err := h.services.Voters(c.Request.Context())
	if err != nil {
		if h.log != nil {
			h.log.Errorw("vote_list_voters_failed", "err", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load voters"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"voters": voters})
}

// @Summary      Vote results
// @Description  Vote count per candidate, including candidates with zero votes.
// @Tags         vote
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "results"
// @Failure      500  {object}  map[string]string
// @Router       /api/vote/results [get]
func (h *Handler) getResults(c *gin.Context) {
	results, err := h.services.Results(c.Request.Context())
	if err != nil {
		if h.log != nil {
			h.log.Errorw("vote_results_failed", "err", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load results"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}
