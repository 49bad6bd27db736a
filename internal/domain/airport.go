package domain

type Airport struct {
	Code    string       `json:"code" binding:"required"`
	Name    string       `json:"name" binding:"required,max=100"`
	City    string       `json:"city" binding:"required,max=100"`
	Country string       `json:"country" binding:"required,max=100"`
	Status  RecordStatus `json:"-"`
}

func (a Airport) Location() string {
	return a.City + ", " + a.Country
}

type Airline struct {
	Code    string       `json:"code" binding:"required"`
	Name    string       `json:"name" binding:"required,max=100"`
	Country string       `json:"country" binding:"max=100"`
	Status  RecordStatus `json:"-"`
}
