package domain

// SlotsPrice сумма цен слотов
func SlotsPrice(slots []Slot) float64 {
	var total float64
	for _, s := range slots {
		total += s.Price
	}
	return total
}

// AddonLinesPrice сумма строк доп. услуг
func AddonLinesPrice(lines []BookingAddon) float64 {
	var total float64
	for _, l := range lines {
		total += l.LineTotal()
	}
	return total
}

// EventTourPrice ставка за кластеро-час, умноженная на сумму часов
func EventTourPrice(pricePerCluster float64, hours []int) float64 {
	return pricePerCluster * float64(TotalHours(hours))
}

// IndividualTourPrice цена билета на количество билетов
func IndividualTourPrice(ticketPrice float64, tickets int) float64 {
	return ticketPrice * float64(tickets)
}
