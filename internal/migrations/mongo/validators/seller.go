package validators

import "go.mongodb.org/mongo-driver/bson"

var SellerValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"title",
			"description",
			"image",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 128,
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"title": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"description": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 1000,
			},

			"image": bson.M{
				"bsonType":  "string",
				"pattern":   `^https?://`,
				"maxLength": 2048,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
