package tui

import "github.com/luochenhu/gh-issuelens/pkg/models"

// Messages produced by the background commands.
type (
	searchDoneMsg struct {
		results models.ResultSet
		err     error
	}

	detailsProgressMsg struct {
		percent int
	}

	detailsDoneMsg struct {
		err error
	}

	analysisChunkMsg struct {
		text string
	}

	analysisDoneMsg struct {
		resp *models.LLMResponse
	}

	exportDoneMsg struct {
		path string
		err  error
	}
)
