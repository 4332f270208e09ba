package enum

type OrderType string

const (
	// executes immediately at the best available price
	Market OrderType = "market"
	// executes only at the specified price or better
	Limit OrderType = "limit"
	// fills for exactly the requested quantity or not at all
	FillOrKill OrderType = "fill-or-kill"
	// like fill-or-kill, but partial fills are kept
	ImmediateOrCancel OrderType = "immediate-or-cancel"
)

func ValidOrderType(oType OrderType) bool {
	return oType == Market ||
		oType == Limit ||
		oType == FillOrKill ||
		oType == ImmediateOrCancel
}

type Side string

const (
	Buy  Side = "buy"
	Sell Side = "sell"
)

func ValidSide(side Side) bool {
	return side == Buy || side == Sell
}
