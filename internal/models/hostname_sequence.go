package models

import (
	"fmt"
	"time"
)

// HostnameSequence is the per (prefix, postfix) counter backing hostname
// allocation. The pair is unique and the counter only increases; the next
// hostname for a pair is prefix + postfix + the zero padded counter.
type HostnameSequence struct {
	ID        uint      `gorm:"primary_key" json:"-"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
	Prefix    string    `json:"prefix" gorm:"size:8;uniqueIndex:idx_hostname_sequences_pair" example:"POL"`
	Postfix   string    `json:"postfix" gorm:"size:8;uniqueIndex:idx_hostname_sequences_pair" example:"SV"`
	Counter   int       `json:"counter"`
}

// Hostname formats the hostname for the current counter value.
func (s *HostnameSequence) Hostname() string {
	return fmt.Sprintf("%s%s%05d", s.Prefix, s.Postfix, s.Counter)
}
