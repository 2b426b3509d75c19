package ui

// BatchStartMsg announces the selected file count before scanning begins
type BatchStartMsg struct {
	Total int
	Label string // "quality" or "validation"
}

// FileResultMsg reports the outcome of one scanned file
type FileResultMsg struct {
	Path   string
	Letter string
	OK     bool   // clean clip / pronunciation match
	Detail string // issue tags or mismatch transcript, empty when OK
}

// AllCompleteMsg indicates the batch has finished
type AllCompleteMsg struct{}
