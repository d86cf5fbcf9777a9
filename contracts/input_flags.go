package contracts

// InputFlags holds the command line configuration of a single run.
type InputFlags struct {
	Sources      []string
	Destination  string
	Title        string
	Author       string
	Quality      int
	QualitySet   bool
	Grayscale    bool
	AdjustWidths bool
	Verbose      bool
}
