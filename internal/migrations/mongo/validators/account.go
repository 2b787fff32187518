package validators

import (
	"concierge/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
)

var UserValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"name", "email", "password_hash", "created_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":           bson.M{"bsonType": "objectId"},
			"name":          bson.M{"bsonType": "string", "minLength": 2, "maxLength": 100},
			"email":         bson.M{"bsonType": "string", "maxLength": 254},
			"password_hash": bson.M{"bsonType": "string"},
			"phone":         bson.M{"bsonType": "string"},
			"created_at":    bson.M{"bsonType": "date"},
		},
	},
}

var MemberValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"name", "email", "password_hash", "tier", "membership_id", "created_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":           bson.M{"bsonType": "objectId"},
			"name":          bson.M{"bsonType": "string", "minLength": 2, "maxLength": 100},
			"email":         bson.M{"bsonType": "string", "maxLength": 254},
			"password_hash": bson.M{"bsonType": "string"},
			"phone":         bson.M{"bsonType": "string"},
			"tier": bson.M{
				"bsonType": "string",
				"enum": []string{
					model.TierBronze,
					model.TierSilver,
					model.TierGold,
					model.TierPlatinum,
					model.TierDiamond,
				},
			},
			"membership_id":  bson.M{"bsonType": "string"},
			"points":         bson.M{"bsonType": []string{"int", "long"}, "minimum": 0},
			"payment_method": bson.M{"bsonType": "string"},
			"payment_id":     bson.M{"bsonType": "string"},
			"created_at":     bson.M{"bsonType": "date"},
		},
	},
}
