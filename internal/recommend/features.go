// NestScout - Housing Listing Recommendations
// Copyright 2026 NestScout contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

package recommend

// Feature vector layout shared by the content scorer and the training
// pipeline. Order matters; changing it invalidates persisted scalers.
const (
	featPrice = iota
	featBedrooms
	featBathrooms
	featSqft
	featPricePerSqft
	featBedBathRatio
	numFeatures
)

// EngineerFeatures returns a copy of the listing with the derived fields
// populated. Missing numerics are already zero-valued; a zero sqft is
// treated as 1 and a zero bathroom count as 0.1 to keep denominators
// non-zero. Pure function, no side effects.
func EngineerFeatures(l Listing) Listing {
	sqft := l.Sqft
	if sqft < 1 {
		sqft = 1
	}
	l.PricePerSqft = l.Price / sqft

	baths := l.Bathrooms
	if baths == 0 {
		baths = 0.1
	}
	l.BedBathRatio = l.Bedrooms / (baths + 0.1)

	return l
}

// featureVector extracts the numeric feature vector from an engineered
// listing.
func featureVector(l Listing) []float64 {
	v := make([]float64, numFeatures)
	v[featPrice] = l.Price
	v[featBedrooms] = l.Bedrooms
	v[featBathrooms] = l.Bathrooms
	v[featSqft] = l.Sqft
	v[featPricePerSqft] = l.PricePerSqft
	v[featBedBathRatio] = l.BedBathRatio
	return v
}

// idealListing builds the synthetic listing a profile describes. Fixed
// bathrooms and sqft stand in for preferences the profile cannot express.
func idealListing(p *Profile) Listing {
	return EngineerFeatures(Listing{
		Price:     p.IdealPriceMidpoint(),
		Bedrooms:  p.IdealBedrooms(),
		Bathrooms: idealBathrooms,
		Sqft:      idealSqft,
	})
}
