package validators

import (
	"concierge/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
)

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"owner_id",
			"owner_kind",
			"hotel_name",
			"check_in",
			"check_out",
			"guests",
			"total",
			"status",
			"booking_type",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"owner_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"owner_kind": bson.M{
				"bsonType": "string",
				"enum":     []string{model.IdentityUser, model.IdentityMember},
			},

			"hotel_name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 200,
			},

			"kind": bson.M{
				"bsonType": "string",
				"enum": []string{
					model.KindHotel,
					model.KindAircraft,
					model.KindYacht,
					model.KindDining,
					model.KindWellness,
				},
			},

			"check_in": bson.M{
				"bsonType": "date",
			},

			"check_out": bson.M{
				"bsonType": "date",
			},

			"guests": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  100,
			},

			"price": bson.M{
				"bsonType": []string{"double", "int", "long"},
				"minimum":  0,
			},

			"total": bson.M{
				"bsonType": []string{"double", "int", "long"},
				"minimum":  0,
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					model.BookingStatusPending,
					model.BookingStatusConfirmed,
					model.BookingStatusCancelled,
				},
			},

			"booking_type": bson.M{
				"bsonType": "string",
				"enum":     []string{model.BookingTypeRegular, model.BookingTypeExclusiveMember},
			},

			"member": bson.M{
				"bsonType": "object",
				"properties": bson.M{
					"tier":          bson.M{"bsonType": "string"},
					"membership_id": bson.M{"bsonType": "string"},
				},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
