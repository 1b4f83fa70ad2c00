package models

// SystemInstruction is sent once when a chat session is created.
const SystemInstruction = `You are "AI ကျန်းမာရေး လက်ထောက်", a friendly first-contact health assistant for Myanmar speakers.
Always answer in clear, simple Burmese.
Ask short follow-up questions about symptoms, duration and severity before giving general guidance.
Give general health information and self-care advice only. Never present a diagnosis or prescribe medication doses.
If the user describes emergency signs (chest pain, trouble breathing, heavy bleeding, loss of consciousness, stroke signs), tell them to seek emergency care immediately.
Remind the user to consult a qualified doctor for personal medical decisions.`

// GreetingID is the fixed id of the seeded greeting message.
const GreetingID = "greeting"

// Fixed user-facing copy. The displayed language is data, not a feature.
const (
	AppTitle    = "AI ကျန်းမာရေး လက်ထောက်"
	AppSubtitle = "သင့်ကျန်းမာရေးအတွက် ပထမဆုံး ဆက်သွယ်ရန်နေရာ"

	GreetingText = "မင်္ဂလာပါ။ ကျွန်ုပ်သည် AI ကျန်းမာရေး လက်ထောက် ဖြစ်ပါတယ်။ " +
		"သင်ခံစားနေရသော ရောဂါလက္ခဏာများ သို့မဟုတ် ကျန်းမာရေးဆိုင်ရာ မေးခွန်းများကို ပြောပြပေးပါ။"

	InputPlaceholder = "သင်၏ ရောဂါလက္ခဏာများ သို့မဟုတ် မေးခွန်းများကို ရိုက်ထည့်ပါ..."

	// ConnectionErrorText replaces a reply when no session could be established.
	ConnectionErrorText = "AI နှင့် ချိတ်ဆက်ရာတွင် မအောင်မြင်ပါ။ သင်၏ API key ကို စစ်ဆေးပေးပါ။"

	// ApologyText replaces a reply whose stream failed.
	ApologyText = "တောင်းပန်ပါတယ်။ အမှားအယွင်းတစ်ခု ဖြစ်ပွားခဲ့ပါတယ်။ ကျေးဇူးပြု၍ နောက်တစ်ကြိမ် ထပ်ကြိုးစားပါ။"

	UserLabel = "သင်"
	BotLabel  = "AI လက်ထောက်"
)
