package domain

type ServiceType string

const (
	ServiceTypeOneShot   ServiceType = "oneShot"
	ServiceTypeTwoShot   ServiceType = "twoShot"
	ServiceTypeThreeShot ServiceType = "threeShot"
	ServiceTypeOvernight ServiceType = "overnight"
	ServiceTypeDating    ServiceType = "dating"
	ServiceTypeEscort    ServiceType = "escort"
)

var serviceTypeDurations = map[ServiceType]int{
	ServiceTypeOneShot:   1,
	ServiceTypeTwoShot:   2,
	ServiceTypeThreeShot: 3,
	ServiceTypeOvernight: 12,
	ServiceTypeDating:    4,
	ServiceTypeEscort:    6,
}

// ServiceDuration — количество последовательных слотов, занимаемых услугой.
// Неизвестные типы занимают один слот.
func ServiceDuration(serviceType ServiceType) int {
	if duration, ok := serviceTypeDurations[serviceType]; ok {
		return duration
	}
	return 1
}

// ServiceOffering — услуга, заявленная в анкете, с ценой.
// Цена от длительности не зависит.
type ServiceOffering struct {
	Type  ServiceType `json:"type"`
	Price int         `json:"price"`
}
