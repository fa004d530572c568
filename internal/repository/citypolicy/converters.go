package citypolicy

import (
	"time"

	"sai/internal/entities"
)

func ToDomain(p *CityPolicyDB) *entities.CityPolicy {
	if p == nil {
		return nil
	}

	policy := entities.CityPolicy{
		CityID:             p.CityID,
		Name:               p.Name,
		StuckThreshold:     time.Duration(p.StuckThresholdMin) * time.Minute,
		MaxOffersPerOrder:  int(p.MaxOffersPerOrder),
		OfferRadiusKm:      p.OfferRadiusKm,
		MaxUnansweredSends: int(p.MaxUnansweredSends),
		Cooldown:           time.Duration(p.CooldownHours) * time.Hour,
		OfferToAllOffline:  p.OfferToAllOffline,
		RequireResponded:   p.RequireResponded,
		RunInterval:        time.Duration(p.RunIntervalSec) * time.Second,
		Active:             p.Active,
	}

	if p.LastRunAt != nil {
		policy.LastRunAt = *p.LastRunAt
	}
	return &policy
}

func ToDomainList(models []CityPolicyDB) []entities.CityPolicy {
	policies := make([]entities.CityPolicy, 0, len(models))
	for i := range models {
		policies = append(policies, *ToDomain(&models[i]))
	}
	return policies
}
