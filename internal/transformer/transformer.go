package transformer

import (
	"encoding/json"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"dataapi/internal/common"
)

// MongoIDField is the identifier MongoDB attaches to every document.
const MongoIDField = "_id"

// DocTransformer renders stored documents as JSON objects for the API,
// dropping the store's identifier field.
type DocTransformer struct {
	idField string
}

// NewDocTransformer creates a DocTransformer that strips idField.
func NewDocTransformer(idField string) *DocTransformer {
	return &DocTransformer{idField: idField}
}

// TransformBSON renders each document as relaxed MongoDB Extended JSON.
// Field order is kept. JSON-native values (strings, numbers, booleans, arrays,
// nested documents) come out unchanged; other BSON types become objects such as
// {"$oid": ...}, {"$date": ...} or {"$numberDecimal": ...}.
func (t *DocTransformer) TransformBSON(docs []bson.D) ([]common.Document, error) {
	output := make([]common.Document, 0, len(docs))
	for i, doc := range docs {
		stripped := make(bson.D, 0, len(doc))
		for _, elem := range doc {
			if elem.Key == t.idField {
				continue
			}
			stripped = append(stripped, elem)
		}

		raw, err := bson.MarshalExtJSON(stripped, false, false)
		if err != nil {
			return nil, &common.TransformError{
				Reason: fmt.Sprintf("document %d: %v", i, err),
				Err:    err,
			}
		}
		output = append(output, common.Document(raw))
	}
	return output, nil
}

// TransformMaps renders unordered documents as plain JSON. Keys are emitted in
// sorted order.
func (t *DocTransformer) TransformMaps(items []map[string]any) ([]common.Document, error) {
	output := make([]common.Document, 0, len(items))
	for i, item := range items {
		stripped := make(map[string]any, len(item))
		for k, v := range item {
			if k == t.idField {
				continue
			}
			stripped[k] = v
		}

		raw, err := json.Marshal(stripped)
		if err != nil {
			return nil, &common.TransformError{
				Reason: fmt.Sprintf("item %d: %v", i, err),
				Err:    err,
			}
		}
		output = append(output, common.Document(raw))
	}
	return output, nil
}
