package ports

// LinkOpener opens a URL outside the terminal
type LinkOpener interface {
	// OpenURL opens the URL with the system handler (browser)
	OpenURL(url string) error
}
