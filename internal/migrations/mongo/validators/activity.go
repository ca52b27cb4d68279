package validators

import "go.mongodb.org/mongo-driver/bson"

var ActivityValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"title",
			"start_time",
			"capacity",
			"category",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"title": bson.M{
				"bsonType": "object",
				"additionalProperties": bson.M{
					"bsonType": "string",
				},
			},

			"start_time": bson.M{
				"bsonType": "date",
			},

			"end_time": bson.M{
				"bsonType": "date",
			},

			"capacity": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  500,
			},

			"category": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 50,
			},

			"duration_minutes": bson.M{
				"bsonType": "int",
				"minimum":  0,
			},

			"featured": bson.M{
				"bsonType": "bool",
			},

			"internal": bson.M{
				"bsonType": "bool",
			},

			"status_override": bson.M{
				"enum": []string{"upcoming", "active", "completed", "cancelled"},
			},

			"recurrence": bson.M{
				"bsonType": "object",
				"required": []string{"kind"},
				"properties": bson.M{
					"kind": bson.M{
						"enum": []string{"none", "daily", "weekly", "monthly"},
					},
					"end_date": bson.M{
						"bsonType": "date",
					},
					"weekdays": bson.M{
						"bsonType": "array",
						"items": bson.M{
							"bsonType": "int",
							"minimum":  0,
							"maximum":  6,
						},
					},
				},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
