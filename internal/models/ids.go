package models

import "strings"

// CompanyName identifies a company. Case and whitespace are significant.
type CompanyName string

// NewCompanyName wraps s without normalizing it.
func NewCompanyName(s string) CompanyName { return CompanyName(s) }

func (n CompanyName) String() string { return string(n) }

// Compare orders company names by their exact text.
func (n CompanyName) Compare(other CompanyName) int {
	return strings.Compare(string(n), string(other))
}

// InterviewName identifies an interview within a single lead.
type InterviewName string

// NewInterviewName wraps s without normalizing it.
func NewInterviewName(s string) InterviewName { return InterviewName(s) }

func (n InterviewName) String() string { return string(n) }

// Compare orders interview names by their exact text.
func (n InterviewName) Compare(other InterviewName) int {
	return strings.Compare(string(n), string(other))
}
