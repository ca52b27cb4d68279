package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"code",
			"activity_id",
			"occurrence_date",
			"contact",
			"num_people",
			"status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"code": bson.M{
				"bsonType":  "string",
				"minLength": 8,
				"maxLength": 24,
			},

			"activity_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"occurrence_date": bson.M{
				"bsonType": "date",
			},

			"contact": bson.M{
				"bsonType": "object",
				"required": []string{"name", "email"},
				"properties": bson.M{
					"name": bson.M{
						"bsonType":  "string",
						"minLength": 2,
						"maxLength": 100,
					},
					"email": bson.M{
						"bsonType":  "string",
						"maxLength": 200,
					},
					"phone": bson.M{
						"bsonType": "string",
					},
				},
			},

			"num_people": bson.M{
				"bsonType": "int",
				"minimum":  1,
			},

			"status": bson.M{
				"enum": []string{"pending", "confirmed", "cancelled", "completed"},
			},

			"paid": bson.M{
				"bsonType": "bool",
			},

			"fingerprint": bson.M{
				"bsonType":  "string",
				"minLength": 64,
				"maxLength": 64,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
