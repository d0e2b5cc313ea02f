package statusboard

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyRelationship(t *testing.T) {
	tests := []struct {
		input string
		want  Relationship
	}{
		{"Sycamore", RelationshipSycamore},
		{"sycamore", RelationshipSycamore},
		{"Client", RelationshipClient},
		{"Sycamore/Client", RelationshipBoth},
		{"Sycamore and Client", RelationshipBoth},
		{"both", RelationshipBoth},
		{"", RelationshipUnknown},
		{"static", RelationshipUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyRelationship(tt.input))
		})
	}
}

func TestRelationshipCategory(t *testing.T) {
	assert.Equal(t, CategoryClient, RelationshipClient.Category())
	assert.Equal(t, CategorySycamore, RelationshipSycamore.Category())
	assert.Equal(t, CategoryBoth, RelationshipBoth.Category())
	// Rows with no recognizable relationship bucket as Client.
	assert.Equal(t, CategoryClient, RelationshipUnknown.Category())
}

func TestParseField(t *testing.T) {
	f := ParseField("CSM: Jane Doe")
	assert.Equal(t, "CSM", f.Key)
	assert.Equal(t, "Jane Doe", f.Value)

	f = ParseField("SOW: Signed: 2026")
	assert.Equal(t, "SOW", f.Key)
	assert.Equal(t, "Signed: 2026", f.Value)

	f = ParseField("no colon here")
	assert.Equal(t, "no colon here", f.Key)
	assert.Equal(t, "", f.Value)
}

func TestFieldListSet(t *testing.T) {
	fl := FieldList{
		{Key: "CSM", Value: "Jane"},
		{Key: "SOW", Value: "Signed"},
	}

	fl.Set(Field{Key: "CSM", Value: "John"})
	require.Len(t, fl, 2)
	v, ok := fl.Get("CSM")
	require.True(t, ok)
	assert.Equal(t, "John", v)

	fl.Set(Field{Key: "QM and Certification", Value: "Pending"})
	require.Len(t, fl, 3)
	assert.True(t, fl.Has("QM and Certification"))
	assert.False(t, fl.Has("Logo"))
}

func TestFieldListJSON(t *testing.T) {
	fl := FieldList{{Key: "CSM", Value: "Jane"}, {Key: "SOW", Value: "Signed"}}
	data, err := json.Marshal(fl)
	require.NoError(t, err)
	assert.JSONEq(t, `["CSM: Jane","SOW: Signed"]`, string(data))

	var back FieldList
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, fl, back)
}

func TestCustomerRecordFlatten(t *testing.T) {
	rec := NewCustomerRecord()
	rec.Client = FieldList{{Key: "CSM", Value: "from client"}}
	rec.Sycamore = FieldList{
		{Key: "CSM", Value: "from sycamore"},
		{Key: "Technical Lead", Value: "Sam"},
	}

	flat := rec.Flatten()
	assert.Equal(t, "from client", flat["CSM"])
	assert.Equal(t, "Sam", flat["Technical Lead"])
}

func TestRecordSetCustomers(t *testing.T) {
	rs := RecordSet{
		"Zeta":      NewCustomerRecord(),
		"Acme":      NewCustomerRecord(),
		"Brick":     NewCustomerRecord(),
		"_internal": NewCustomerRecord(),
	}
	assert.Equal(t, []string{"Acme", "Brick", "Zeta"}, rs.Customers())
}
