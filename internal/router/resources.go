package router

import (
	"github.com/noah-isme/campus-connect-api/internal/service"
)

// Validation rules and ownership of every table served by the generic
// handlers. Update rules are optional versions of the create rules.

var campusSpec = service.ResourceSpec{
	Name:     "campuses",
	ReadOnly: []string{"campus_id"},
	CreateRules: service.Rules{
		"name":     "required,max=100",
		"location": "omitempty,max=200",
	},
	UpdateRules: service.Rules{
		"name":     "omitempty,max=100",
		"location": "omitempty,max=200",
	},
	Cached: true,
}

var programSpec = service.ResourceSpec{
	Name:     "programs",
	ReadOnly: []string{"program_id"},
	CreateRules: service.Rules{
		"name":         "required,max=100",
		"abbreviation": "required,max=10",
	},
	UpdateRules: service.Rules{
		"name":         "omitempty,max=100",
		"abbreviation": "omitempty,max=10",
	},
	Cached: true,
}

var hobbySpec = service.ResourceSpec{
	Name:        "hobbies",
	ReadOnly:    []string{"hobby_id"},
	CreateRules: service.Rules{"name": "required,max=50"},
	UpdateRules: service.Rules{"name": "omitempty,max=50"},
	Cached:      true,
}

var reactionTypeSpec = service.ResourceSpec{
	Name:     "reaction_types",
	ReadOnly: []string{"reaction_type_id"},
	CreateRules: service.Rules{
		"name":  "required,max=30",
		"emoji": "omitempty,max=16",
	},
	UpdateRules: service.Rules{
		"name":  "omitempty,max=30",
		"emoji": "omitempty,max=16",
	},
	Cached: true,
}

var studentSpec = service.ResourceSpec{
	Name:     "students",
	Owner:    "erp",
	ReadOnly: []string{"created_at"},
	CreateRules: service.Rules{
		"erp":                 "required,gte=10000,lte=99999",
		"first_name":          "required,max=50",
		"last_name":           "required,max=50",
		"email":               "required,email",
		"gender":              "omitempty,oneof=MALE FEMALE OTHER",
		"contact_number":      "omitempty,max=20",
		"birthday":            "omitempty,timestamp",
		"profile_picture_url": "omitempty,url",
		"graduation_year":     "omitempty,gte=1950,lte=2100",
		"bio":                 "omitempty,max=500",
		"program_id":          "omitempty,gt=0",
		"campus_id":           "omitempty,gt=0",
	},
	UpdateRules: service.Rules{
		"first_name":          "omitempty,max=50",
		"last_name":           "omitempty,max=50",
		"email":               "omitempty,email",
		"gender":              "omitempty,oneof=MALE FEMALE OTHER",
		"contact_number":      "omitempty,max=20",
		"birthday":            "omitempty,timestamp",
		"profile_picture_url": "omitempty,url",
		"graduation_year":     "omitempty,gte=1950,lte=2100",
		"bio":                 "omitempty,max=500",
		"program_id":          "omitempty,gt=0",
		"campus_id":           "omitempty,gt=0",
	},
}

var studentHobbySpec = service.ResourceSpec{
	Name:  "student_hobbies",
	Owner: "erp",
	CreateRules: service.Rules{
		"erp":      "required",
		"hobby_id": "required,gt=0",
	},
}

var friendSpec = service.ResourceSpec{
	Name:  "friends",
	Owner: "erp",
	// friendships are written by accepting a request
	PrivateReads: true,
}

var activitySpec = service.ResourceSpec{
	Name:     "activities",
	Owner:    "organizer_erp",
	ReadOnly: []string{"activity_id", "created_at"},
	CreateRules: service.Rules{
		"organizer_erp":    "required",
		"campus_id":        "omitempty,gt=0",
		"title":            "required,max=120",
		"description":      "omitempty,max=2000",
		"location":         "omitempty,max=200",
		"starts_at":        "required,timestamp",
		"ends_at":          "omitempty,timestamp",
		"max_participants": "omitempty,gt=0",
		"visibility":       "omitempty,oneof=PUBLIC FRIENDS PRIVATE",
	},
	UpdateRules: service.Rules{
		"campus_id":        "omitempty,gt=0",
		"title":            "omitempty,max=120",
		"description":      "omitempty,max=2000",
		"location":         "omitempty,max=200",
		"starts_at":        "omitempty,timestamp",
		"ends_at":          "omitempty,timestamp",
		"max_participants": "omitempty,gt=0",
		"visibility":       "omitempty,oneof=PUBLIC FRIENDS PRIVATE",
	},
}

var attendeeSpec = service.ResourceSpec{
	Name:     "activity_attendees",
	Owner:    "student_erp",
	ReadOnly: []string{"joined_at"},
	CreateRules: service.Rules{
		"activity_id": "required,gt=0",
		"student_erp": "required",
	},
}

var postSpec = service.ResourceSpec{
	Name:     "posts",
	Owner:    "author_erp",
	ReadOnly: []string{"post_id", "created_at"},
	UpdateRules: service.Rules{
		"body":       "omitempty,max=5000",
		"visibility": "omitempty,oneof=PUBLIC FRIENDS PRIVATE",
	},
}

var postReactionSpec = service.ResourceSpec{
	Name:     "post_reactions",
	Owner:    "reactor_erp",
	ReadOnly: []string{"reacted_at"},
	CreateRules: service.Rules{
		"post_id":          "required,gt=0",
		"reactor_erp":      "required",
		"reaction_type_id": "required,gt=0",
	},
	UpdateRules: service.Rules{
		"reaction_type_id": "required,gt=0",
	},
}

// Receivers see incoming requests with ?receiver_erp=<own erp> and decline
// them by deleting.
var friendRequestSpec = service.ResourceSpec{
	Name:         "friend_requests",
	Owner:        "sender_erp",
	Participant:  "receiver_erp",
	PrivateReads: true,
	ReadOnly:     []string{"friend_request_id", "created_at"},
	CreateRules: service.Rules{
		"sender_erp":   "required",
		"receiver_erp": "required,gte=10000,lte=99999",
	},
}

// Only the receiver answers a hangout request.
var hangoutRequestSpec = service.ResourceSpec{
	Name:               "hangout_requests",
	Owner:              "sender_erp",
	Participant:        "receiver_erp",
	ParticipantColumns: []string{"status"},
	PrivateReads:       true,
	ReadOnly:           []string{"hangout_request_id", "created_at"},
	CreateRules: service.Rules{
		"sender_erp":      "required",
		"receiver_erp":    "required,gte=10000,lte=99999",
		"purpose":         "required,max=200",
		"meetup_location": "omitempty,max=200",
		"meetup_at":       "required,timestamp",
		"status":          "omitempty,oneof=PENDING",
	},
	UpdateRules: service.Rules{
		"purpose":         "omitempty,max=200",
		"meetup_location": "omitempty,max=200",
		"meetup_at":       "omitempty,timestamp",
		"status":          "omitempty,oneof=PENDING ACCEPTED REJECTED",
	},
}

var subjectSpec = service.ResourceSpec{
	Name: "subjects",
	CreateRules: service.Rules{
		"subject_code": "required,max=20",
		"title":        "required,max=120",
		"credit_hours": "required,gte=0,lte=6",
	},
	UpdateRules: service.Rules{
		"title":        "omitempty,max=120",
		"credit_hours": "omitempty,gte=0,lte=6",
	},
}

var teacherSpec = service.ResourceSpec{
	Name: "teachers",
	// the rating aggregate only changes with reviews
	ReadOnly: []string{"teacher_id", "average_rating", "total_reviews"},
	CreateRules: service.Rules{
		"full_name": "required,max=100",
		"email":     "omitempty,email",
	},
	UpdateRules: service.Rules{
		"full_name": "omitempty,max=100",
		"email":     "omitempty,email",
	},
}

var classSpec = service.ResourceSpec{
	Name: "classes",
	CreateRules: service.Rules{
		"class_nbr":    "required,max=20",
		"term_id":      "required,max=10",
		"subject_code": "required,max=20",
		"teacher_id":   "omitempty,gt=0",
		"section":      "omitempty,max=10",
		"classroom":    "omitempty,max=30",
		"days":         "required,weekdays",
		"start_time":   "required,hhmm",
		"end_time":     "required,hhmm",
	},
	UpdateRules: service.Rules{
		"term_id":      "omitempty,max=10",
		"subject_code": "omitempty,max=20",
		"teacher_id":   "omitempty,gt=0",
		"section":      "omitempty,max=10",
		"classroom":    "omitempty,max=30",
		"days":         "omitempty,weekdays",
		"start_time":   "omitempty,hhmm",
		"end_time":     "omitempty,hhmm",
	},
}

var timetableSpec = service.ResourceSpec{
	Name:         "timetables",
	Owner:        "student_erp",
	PrivateReads: true,
	ReadOnly:     []string{"timetable_id", "created_at"},
	CreateRules: service.Rules{
		"student_erp": "required",
		"term_id":     "required,max=10",
		"title":       "required,max=100",
	},
	UpdateRules: service.Rules{
		"title": "omitempty,max=100",
	},
}
