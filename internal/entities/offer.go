package entities

// PairKey идентифицирует пару (заказ, курьер) в рамках исключений.
type PairKey struct {
	OrderID   int64
	CourierID int64
}

type PairSet map[PairKey]struct{}

func (s PairSet) Has(orderID, courierID int64) bool {
	_, ok := s[PairKey{OrderID: orderID, CourierID: courierID}]
	return ok
}

func (s PairSet) Add(orderID, courierID int64) {
	s[PairKey{OrderID: orderID, CourierID: courierID}] = struct{}{}
}

// OfferCandidate живет только внутри одного прохода матчинга.
type OfferCandidate struct {
	Order      StuckOrder
	Courier    CourierCandidate
	DistanceKm float64
}

// Offer — выбранная пара, готовая к отправке через канал сообщений.
type Offer struct {
	Order      StuckOrder
	Courier    CourierCandidate
	DistanceKm float64
}

type DispatchOutcome string

const (
	DispatchSent    DispatchOutcome = "SENT"
	DispatchFailed  DispatchOutcome = "FAILED"
	DispatchTimeout DispatchOutcome = "TIMEOUT"
)

func (o DispatchOutcome) String() string {
	return string(o)
}

// DispatchSession — состояние одного офера в полете: хендл контакта в канале,
// номер после возможной серверной коррекции и итог.
type DispatchSession struct {
	Offer       Offer
	ContactID   string
	Phone       string
	Outcome     DispatchOutcome
	RawResponse string
}
