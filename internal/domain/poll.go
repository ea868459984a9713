package domain

// Address is a caller's canonical address as supplied by the host.
type Address string

// Poll represents a voteable proposal
type Poll struct {
	ID          uint64    `json:"id"`
	Image       string    `json:"image"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Votes       uint64    `json:"votes"`
	Contestants uint64    `json:"contestants"`
	Deleted     bool      `json:"deleted"`
	Director    Address   `json:"director"`
	StartsAt    uint64    `json:"starts_at"`
	EndsAt      uint64    `json:"ends_at"`
	Timestamp   uint64    `json:"timestamp"`
	Voters      []Address `json:"voters"`
	// Avatars, Question and Options are carried for record compatibility;
	// no command writes them.
	Avatars  []string `json:"avatars"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// HasVoted reports whether addr already voted in this poll.
func (p *Poll) HasVoted(addr Address) bool {
	for _, v := range p.Voters {
		if v == addr {
			return true
		}
	}
	return false
}

// Contestant represents an option within a poll
type Contestant struct {
	ID    uint64 `json:"id"`
	Image string `json:"image"`
	Name  string `json:"name"`
	// Voter is the address that registered the contestant, not an elector.
	Voter  Address   `json:"voter"`
	Votes  uint64    `json:"votes"`
	Voters []Address `json:"voters"`
}
