package browse

// WindowSize is the number of page links shown at once.
const WindowSize = 5

// Window returns the page numbers to render as links: at most WindowSize
// consecutive pages around current, always inside [1, total]. It is full
// width whenever total >= WindowSize.
func Window(current, total int) []int {
	if total <= 0 {
		return []int{}
	}
	start := max(1, current-WindowSize/2)
	end := min(total, start+WindowSize-1)
	if end-start < WindowSize-1 {
		start = max(1, end-(WindowSize-1))
	}
	pages := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}
	return pages
}
