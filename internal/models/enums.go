// PMAtlas - Location-Based Networking for Product Managers
// Copyright 2026 PMAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pmatlas/pmatlas

package models

// Status is a member's employment situation (single-select).
type Status string

// Employment status values.
const (
	StatusJobSeeker     Status = "job-seeker"
	StatusEmployee      Status = "current-employee"
	StatusOpenToOffers  Status = "open-to-opportunities"
	StatusHiringManager Status = "hiring-manager"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusJobSeeker, StatusEmployee, StatusOpenToOffers, StatusHiringManager:
		return true
	}
	return false
}

// Label returns a human-readable form of the status for display surfaces.
func (s Status) Label() string {
	switch s {
	case StatusJobSeeker:
		return "Job Seeker"
	case StatusEmployee:
		return "Employed"
	case StatusOpenToOffers:
		return "Open to Opportunities"
	case StatusHiringManager:
		return "Hiring"
	}
	return string(s)
}

// Experience is a member's seniority tier (single-select, ordered).
type Experience string

// Experience tiers, from most junior to most senior.
const (
	ExperienceIntern    Experience = "intern"
	ExperienceAssociate Experience = "associate-pm"
	ExperiencePM        Experience = "pm"
	ExperienceSenior    Experience = "senior-pm"
	ExperiencePrincipal Experience = "principal-pm"
	ExperienceDirector  Experience = "director-plus"
)

// experienceRank orders tiers for comparisons. Unknown tiers rank below intern.
var experienceRank = map[Experience]int{
	ExperienceIntern:    1,
	ExperienceAssociate: 2,
	ExperiencePM:        3,
	ExperienceSenior:    4,
	ExperiencePrincipal: 5,
	ExperienceDirector:  6,
}

// Valid reports whether e is a known experience tier.
func (e Experience) Valid() bool {
	_, ok := experienceRank[e]
	return ok
}

// Rank returns the tier's position in the seniority ordering, 0 for unknown.
func (e Experience) Rank() int {
	return experienceRank[e]
}

// Label returns a human-readable form of the tier for display surfaces.
func (e Experience) Label() string {
	switch e {
	case ExperienceIntern:
		return "Intern"
	case ExperienceAssociate:
		return "Associate PM"
	case ExperiencePM:
		return "Product Manager"
	case ExperienceSenior:
		return "Senior PM"
	case ExperiencePrincipal:
		return "Principal PM"
	case ExperienceDirector:
		return "Director+"
	}
	return string(e)
}

// Focus is a product-management specialization (multi-select).
type Focus string

// PM focus areas.
const (
	FocusTechnical  Focus = "technical-pm"
	FocusGrowth     Focus = "growth-pm"
	FocusData       Focus = "data-pm"
	FocusAIML       Focus = "ai-ml-pm"
	FocusPlatform   Focus = "platform-pm"
	FocusConsumer   Focus = "consumer-pm"
	FocusB2B        Focus = "b2b-pm"
	FocusProductOps Focus = "product-ops"
)

// Valid reports whether f is a known focus area.
func (f Focus) Valid() bool {
	switch f {
	case FocusTechnical, FocusGrowth, FocusData, FocusAIML,
		FocusPlatform, FocusConsumer, FocusB2B, FocusProductOps:
		return true
	}
	return false
}

// Industry is a member's industry sector (multi-select).
type Industry string

// Industry values.
const (
	IndustrySaaS       Industry = "saas"
	IndustryEcommerce  Industry = "e-commerce"
	IndustryHealthcare Industry = "healthcare"
	IndustryFintech    Industry = "fintech"
	IndustryGaming     Industry = "gaming"
	IndustryEdtech     Industry = "edtech"
	IndustryCrypto     Industry = "crypto"
	IndustryHardware   Industry = "hardware"
	IndustryMedia      Industry = "media"
	IndustryRealEstate Industry = "real-estate"
)

// Valid reports whether i is a known industry.
func (i Industry) Valid() bool {
	switch i {
	case IndustrySaaS, IndustryEcommerce, IndustryHealthcare, IndustryFintech,
		IndustryGaming, IndustryEdtech, IndustryCrypto, IndustryHardware,
		IndustryMedia, IndustryRealEstate:
		return true
	}
	return false
}

// CompanyStage is a company funding stage (multi-select).
type CompanyStage string

// Company stage values.
const (
	StagePreSeed    CompanyStage = "pre-seed"
	StageSeed       CompanyStage = "seed"
	StageSeriesA    CompanyStage = "series-a"
	StageSeriesB    CompanyStage = "series-b"
	StageSeriesC    CompanyStage = "series-c"
	StageLate       CompanyStage = "late-stage"
	StagePublic     CompanyStage = "public"
	StageEnterprise CompanyStage = "enterprise"
)

// Valid reports whether c is a known company stage.
func (c CompanyStage) Valid() bool {
	switch c {
	case StagePreSeed, StageSeed, StageSeriesA, StageSeriesB,
		StageSeriesC, StageLate, StagePublic, StageEnterprise:
		return true
	}
	return false
}

// Skill is a professional competency (multi-select).
type Skill string

// Skill values.
const (
	SkillStrategy     Skill = "strategy"
	SkillAnalytics    Skill = "analytics"
	SkillTechnical    Skill = "technical"
	SkillDesign       Skill = "design"
	SkillLeadership   Skill = "leadership"
	SkillGoToMarket   Skill = "go-to-market"
	SkillUserResearch Skill = "user-research"
	SkillDataAnalysis Skill = "data-analysis"
)

// Valid reports whether s is a known skill.
func (s Skill) Valid() bool {
	switch s {
	case SkillStrategy, SkillAnalytics, SkillTechnical, SkillDesign,
		SkillLeadership, SkillGoToMarket, SkillUserResearch, SkillDataAnalysis:
		return true
	}
	return false
}

// Interest is a community interest (multi-select).
type Interest string

// Interest values.
const (
	InterestMentoring        Interest = "mentoring"
	InterestJobHunting       Interest = "job-hunting"
	InterestNetworking       Interest = "networking"
	InterestKnowledgeSharing Interest = "knowledge-sharing"
	InterestStartupFounding  Interest = "startup-founding"
	InterestInvesting        Interest = "investing"
)

// Valid reports whether i is a known interest.
func (i Interest) Valid() bool {
	switch i {
	case InterestMentoring, InterestJobHunting, InterestNetworking,
		InterestKnowledgeSharing, InterestStartupFounding, InterestInvesting:
		return true
	}
	return false
}
