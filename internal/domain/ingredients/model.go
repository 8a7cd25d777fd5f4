package ingredients

type Ingredient struct {
	ID              int64
	Name            string
	MeasurementUnit string
}
