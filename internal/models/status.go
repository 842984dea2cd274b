// internal/models/status.go
package models

// StatusBadge is the display metadata the clients render for a contract
// status: a label, an icon name, and a badge color.
type StatusBadge struct {
	Label string `json:"label"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

var contractStatusBadges = map[ContractStatus]StatusBadge{
	ContractStatusDraft:            {Label: "Draft", Icon: "edit", Color: "gray"},
	ContractStatusPendingReview:    {Label: "Pending Review", Icon: "eye", Color: "yellow"},
	ContractStatusPendingApproval:  {Label: "Pending Approval", Icon: "clock", Color: "yellow"},
	ContractStatusApproved:         {Label: "Approved", Icon: "check", Color: "blue"},
	ContractStatusPendingSignature: {Label: "Pending Signature", Icon: "pen", Color: "orange"},
	ContractStatusPartiallySigned:  {Label: "Partially Signed", Icon: "pen", Color: "orange"},
	ContractStatusFullySigned:      {Label: "Fully Signed", Icon: "check-circle", Color: "teal"},
	ContractStatusActive:           {Label: "Active", Icon: "play", Color: "green"},
	ContractStatusCompleted:        {Label: "Completed", Icon: "flag", Color: "green"},
	ContractStatusCancelled:        {Label: "Cancelled", Icon: "x-circle", Color: "red"},
	ContractStatusTerminated:       {Label: "Terminated", Icon: "stop", Color: "red"},
}

// Badge returns the display metadata for a status. Statuses outside the known
// enumeration fall back to a generic badge carrying the raw string.
func (s ContractStatus) Badge() StatusBadge {
	if badge, ok := contractStatusBadges[s]; ok {
		return badge
	}
	return StatusBadge{Label: string(s), Icon: "file", Color: "gray"}
}

// contractTransitions is the allowed-transition table. Every lifecycle verb
// checks it before mutating a contract.
var contractTransitions = map[ContractStatus][]ContractStatus{
	ContractStatusDraft:            {ContractStatusPendingReview, ContractStatusPendingApproval, ContractStatusCancelled},
	ContractStatusPendingReview:    {ContractStatusPendingApproval, ContractStatusDraft, ContractStatusCancelled},
	ContractStatusPendingApproval:  {ContractStatusApproved, ContractStatusDraft, ContractStatusCancelled},
	ContractStatusApproved:         {ContractStatusPendingSignature, ContractStatusCancelled},
	ContractStatusPendingSignature: {ContractStatusPartiallySigned, ContractStatusFullySigned, ContractStatusCancelled},
	ContractStatusPartiallySigned:  {ContractStatusFullySigned, ContractStatusCancelled},
	ContractStatusFullySigned:      {ContractStatusActive, ContractStatusCancelled},
	ContractStatusActive:           {ContractStatusCompleted, ContractStatusTerminated},
	ContractStatusCompleted:        {},
	ContractStatusCancelled:        {},
	ContractStatusTerminated:       {},
}

func (s ContractStatus) CanTransitionTo(next ContractStatus) bool {
	for _, allowed := range contractTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s ContractStatus) IsTerminal() bool {
	switch s {
	case ContractStatusCompleted, ContractStatusCancelled, ContractStatusTerminated:
		return true
	}
	return false
}

// Affordances derived purely from the current status. These drive both the
// API-level action checks and the booleans returned to clients.

func (s ContractStatus) CanSign() bool {
	return s == ContractStatusPendingSignature || s == ContractStatusPartiallySigned
}

func (s ContractStatus) CanActivate() bool {
	return s == ContractStatusFullySigned
}

func (s ContractStatus) CanTerminate() bool {
	return s == ContractStatusActive
}

// ContractPermissions is attached to contract payloads so clients can gate
// button visibility without re-deriving status rules.
type ContractPermissions struct {
	CanSign      bool `json:"can_sign"`
	CanActivate  bool `json:"can_activate"`
	CanTerminate bool `json:"can_terminate"`
}

func (c *Contract) Permissions() ContractPermissions {
	return ContractPermissions{
		CanSign:      c.Status.CanSign(),
		CanActivate:  c.Status.CanActivate(),
		CanTerminate: c.Status.CanTerminate(),
	}
}
