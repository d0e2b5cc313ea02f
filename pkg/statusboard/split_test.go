package statusboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitEditsRouting(t *testing.T) {
	master := NewCustomerRecord()
	master.Client = FieldList{
		{Key: "Customer Location", Value: "Boston"},
		{Key: "Customer Sentiment Score", Value: "7"},
	}
	master.Sycamore = FieldList{{Key: "CSM", Value: "Jane"}}

	edits := Edits{
		CategoryClient: {
			{Key: "Customer Location", Value: "Austin"},
			{Key: "Customer Sentiment Score", Value: "9"},
			{Key: "Action Items", Value: "follow up"},
		},
		CategorySycamore: {{Key: "CSM", Value: "Sam"}},
	}

	weekly, masterOut := SplitEdits(edits, master)

	// Master-known keys route to master.
	assert.True(t, masterOut[CategoryClient].Has("Customer Location"))
	assert.True(t, masterOut[CategorySycamore].Has("CSM"))

	// Sentiment is weekly-only even though master holds the key.
	assert.True(t, weekly[CategoryClient].Has("Customer Sentiment Score"))
	assert.False(t, masterOut[CategoryClient].Has("Customer Sentiment Score"))

	// Keys master has never seen default to the weekly destination.
	assert.True(t, weekly[CategoryClient].Has("Action Items"))
}

func TestSplitEditsCategoryScoped(t *testing.T) {
	master := NewCustomerRecord()
	master.Client = FieldList{{Key: "Shared Key", Value: "x"}}

	weekly, masterOut := SplitEdits(Edits{
		CategorySycamore: {{Key: "Shared Key", Value: "y"}},
	}, master)

	// The key exists in master but under a different category, so the
	// edit stays weekly.
	assert.True(t, weekly[CategorySycamore].Has("Shared Key"))
	assert.Empty(t, masterOut)
}

func TestSplitEditsNilMaster(t *testing.T) {
	weekly, masterOut := SplitEdits(Edits{
		CategoryClient: {{Key: "Anything", Value: "v"}},
	}, nil)

	assert.True(t, weekly[CategoryClient].Has("Anything"))
	assert.Empty(t, masterOut)
}
