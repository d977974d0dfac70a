// ABOUTME: The fixed onboarding script: 12 discovery questions with score follow-ups
// ABOUTME: and 8 nutritional questions without. Also holds the canned system texts.
package onboarding

// Question is one scripted onboarding prompt.
type Question struct {
	ID        int
	Text      string
	FollowUp  string
	DataPoint string
}

// HasFollowUp reports whether the question asks for a 1-10 score afterwards.
func (q Question) HasFollowUp() bool {
	return q.FollowUp != ""
}

const (
	WelcomeText    = "Hi! I'm here to help you discover your personalized nutrition path. This conversation will help me understand what matters most to you and build a plan that truly fits your life. Let's start with what brought you here today."
	RepromptText   = "I need a number from 1-10 to help me understand better. Could you give me a score?"
	CompletionText = "Perfect! I now have everything I need to build your personalized nutrition plan. Let me create your mission statement and then we'll move to your dashboard."
)

// Data point keys read after completion.
const (
	KeyMainMotivation = "mainMotivation"
	KeySixMonthVision = "sixMonthVision"
	KeyDeepWhy        = "deepWhy"
	KeyHeight         = "height"
	KeyCurrentWeight  = "currentWeight"
	KeyTargetWeight   = "targetWeight"
)

// DiscoveryQuestions is the number of leading questions that carry a score follow-up.
const DiscoveryQuestions = 12

// Script is the ordered onboarding question list.
var Script = []Question{
	{
		ID:        1,
		Text:      "What brought you here today? What's really going on with your health and energy?",
		FollowUp:  "On a scale of 1-10, how motivated do you feel to make changes? 1 being it feels overwhelming, 10 being you're ready to tackle anything.",
		DataPoint: KeyMainMotivation,
	},
	{
		ID:        2,
		Text:      "Tell me about a typical day - how do you feel in your body from morning to night?",
		FollowUp:  "On a scale of 1-10, where would you put your current energy level? 1 being completely drained, 10 being full of energy.",
		DataPoint: "currentEnergyLevel",
	},
	{
		ID:        3,
		Text:      "When you imagine having the energy you truly want, what would that give you? What becomes possible?",
		FollowUp:  "On a scale of 1-10, how would you rate your desired energy level? 1 being just getting by, 10 being unstoppable.",
		DataPoint: "desiredEnergyLevel",
	},
	{
		ID:        4,
		Text:      "What matters most to you in life right now? Who depends on you being at your best?",
		FollowUp:  "On a scale of 1-10, how important is this to you? 1 being nice to have, 10 being absolutely critical.",
		DataPoint: "coreValues",
	},
	{
		ID:        5,
		Text:      "How do you feel about food and eating? What emotions come up?",
		FollowUp:  "On a scale of 1-10, how would you rate your relationship with food right now? 1 being it feels like a constant battle, 10 being you feel in control.",
		DataPoint: "foodRelationship",
	},
	{
		ID:        6,
		Text:      "What's worked for you before, even briefly? What made you feel amazing?",
		FollowUp:  "On a scale of 1-10, how confident do you feel about making changes? 1 being not at all, 10 being very confident.",
		DataPoint: "pastSuccesses",
	},
	{
		ID:        7,
		Text:      "What gets in your way? When do you struggle most with healthy choices?",
		FollowUp:  "On a scale of 1-10, how challenging do these obstacles feel? 1 being easy to overcome, 10 being almost impossible.",
		DataPoint: "mainObstacles",
	},
	{
		ID:        8,
		Text:      "Six months from now, if everything went perfectly, how would you feel? What would be different?",
		FollowUp:  "On a scale of 1-10, how excited are you about this vision? 1 being not really, 10 being incredibly excited.",
		DataPoint: KeySixMonthVision,
	},
	{
		ID:        9,
		Text:      "Who are you becoming through this journey? What kind of person do you want to be?",
		FollowUp:  "On a scale of 1-10, how aligned do you feel with this identity? 1 being not at all, 10 being completely aligned.",
		DataPoint: "identityGoal",
	},
	{
		ID:        10,
		Text:      "Who celebrates your wins? Who would notice if you transformed your health?",
		FollowUp:  "On a scale of 1-10, how supported do you feel? 1 being completely alone, 10 being very supported.",
		DataPoint: "supportSystem",
	},
	{
		ID:        11,
		Text:      "Why does this matter to you at the deepest level? What's at stake if nothing changes?",
		FollowUp:  "On a scale of 1-10, how urgent does this feel? 1 being not urgent, 10 being extremely urgent.",
		DataPoint: KeyDeepWhy,
	},
	{
		ID:        12,
		Text:      "What makes this time different? What's your one word for this journey?",
		FollowUp:  "On a scale of 1-10, how committed are you? 1 being just exploring, 10 being all in.",
		DataPoint: "commitmentLevel",
	},

	// Nutritional requirements
	{ID: 13, Text: "To understand your energy needs better, what's your current height in centimeters?", DataPoint: KeyHeight},
	{ID: 14, Text: "And what's your current weight in kilograms?", DataPoint: KeyCurrentWeight},
	{ID: 15, Text: "What weight would help you feel the way you want to feel?", DataPoint: KeyTargetWeight},
	{ID: 16, Text: "By when would you like to reach this goal?", DataPoint: "timeframe"},
	{ID: 17, Text: "How many times per week do you exercise?", DataPoint: "exerciseFrequency"},
	{ID: 18, Text: "What intensity would you say your workouts are - low, medium, or high?", DataPoint: "exerciseIntensity"},
	{ID: 19, Text: "Are there any foods you absolutely can't eat or don't want to eat?", DataPoint: "noGoFoods"},
	{ID: 20, Text: "What kind of eating style appeals to you - omnivore, vegetarian, keto, paleo, or something else?", DataPoint: "dietaryStyle"},
}
