package pagination

// DefaultPerPage размер страницы в админских списках
const DefaultPerPage = 10

// Page параметры страницы
type Page struct {
	Number  int // с 1
	PerPage int
}

// New нормализует номер страницы и размер
func New(number, perPage int) Page {
	if number < 1 {
		number = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	return Page{Number: number, PerPage: perPage}
}

// Offset смещение для OFFSET
func (p Page) Offset() int {
	if p.Number < 1 {
		return 0
	}
	return (p.Number - 1) * p.PerPage
}

// TotalPages количество страниц для total записей
func TotalPages(total int64, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}
