package commands

import (
	"encoding/json"

	"github.com/GoPolymarket/walletgate/pkg/apperrors"
)

// VoteSubmission casts a vote on a governance proposal.
type VoteSubmission struct {
	ProposalID string    `json:"proposalId"`
	Value      VoteValue `json:"value"`
}

// NewVote builds a VoteSubmission command.
func NewVote(proposalID string, value VoteValue) VoteSubmission {
	return VoteSubmission{ProposalID: proposalID, Value: value}
}

// UnmarshalJSON also accepts the snake_case "proposal_id" key written by
// older clients. One of the two keys and value are required.
func (v *VoteSubmission) UnmarshalJSON(data []byte) error {
	fields, err := checkFields("vote submission", data, []string{"value"}, "proposalId", "proposal_id")
	if err != nil {
		return err
	}
	key := "proposalId"
	if raw, ok := fields[key]; !ok || isNull(raw) {
		key = "proposal_id"
	}
	if raw, ok := fields[key]; !ok || isNull(raw) {
		return apperrors.NewDecode(`vote submission: missing field "proposalId"`, nil)
	}

	var (
		proposalID string
		value      VoteValue
	)
	if err := json.Unmarshal(fields[key], &proposalID); err != nil {
		return err
	}
	if err := json.Unmarshal(fields["value"], &value); err != nil {
		return err
	}
	v.ProposalID = proposalID
	v.Value = value
	return nil
}
