package preprocessing

// Strategy selects the encoding applied to a categorical column.
type Strategy int

const (
	// Ordinal encodes categories as integer codes.
	Ordinal Strategy = iota
	// OneHot expands the column into per-category indicator columns.
	OneHot
	// Binary encodes a two-valued column as a single 0/1 column.
	Binary
)

// String returns the strategy name.
func (s Strategy) String() string {
	switch s {
	case Ordinal:
		return "ordinal"
	case OneHot:
		return "onehot"
	case Binary:
		return "binary"
	default:
		return "unknown"
	}
}

// Schema is the static, hand-curated assignment of categorical columns to
// encoding strategies. It is explicit configuration passed into the
// pipeline, never inferred from the data.
type Schema map[string]Strategy

// AmesSchema returns the encoding schema for the Ames housing feature set.
// Ordered quality/condition scales are ordinal, unordered nominals are
// one-hot, two-valued columns are binary. Columns that the cleaner drops for
// excessive missingness (Alley, FireplaceQu, PoolQC, Fence, MiscFeature)
// are listed anyway; the encoder only touches columns present in the frame.
func AmesSchema() Schema {
	return Schema{
		// Ordered scales.
		"LotShape":     Ordinal,
		"Utilities":    Ordinal,
		"LandSlope":    Ordinal,
		"ExterQual":    Ordinal,
		"ExterCond":    Ordinal,
		"BsmtQual":     Ordinal,
		"BsmtCond":     Ordinal,
		"BsmtExposure": Ordinal,
		"BsmtFinType1": Ordinal,
		"BsmtFinType2": Ordinal,
		"HeatingQC":    Ordinal,
		"Electrical":   Ordinal,
		"KitchenQual":  Ordinal,
		"Functional":   Ordinal,
		"FireplaceQu":  Ordinal,
		"GarageFinish": Ordinal,
		"GarageQual":   Ordinal,
		"GarageCond":   Ordinal,
		"PavedDrive":   Ordinal,
		"PoolQC":       Ordinal,
		"Fence":        Ordinal,

		// Unordered nominals.
		"MSZoning":      OneHot,
		"Alley":         OneHot,
		"LandContour":   OneHot,
		"LotConfig":     OneHot,
		"Neighborhood":  OneHot,
		"Condition1":    OneHot,
		"Condition2":    OneHot,
		"BldgType":      OneHot,
		"HouseStyle":    OneHot,
		"RoofStyle":     OneHot,
		"RoofMatl":      OneHot,
		"Exterior1st":   OneHot,
		"Exterior2nd":   OneHot,
		"MasVnrType":    OneHot,
		"Foundation":    OneHot,
		"Heating":       OneHot,
		"GarageType":    OneHot,
		"MiscFeature":   OneHot,
		"SaleType":      OneHot,
		"SaleCondition": OneHot,

		// Two-valued columns.
		"Street":     Binary,
		"CentralAir": Binary,
	}
}
