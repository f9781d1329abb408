package assistant

import (
	"fmt"
	"strings"
)

const simplifyTemplate = `You are a patient educator. Simplify the following medical summary so a 12-year-old can understand it. Keep it accurate and reassuring. Avoid jargon unless explained. Do not state that you summarized it for a 12-year-old to understand in your response. 

Format your response as:
1. **Simple Summary**: [Easy-to-understand explanation]
2. **Key Terms**: [List important medical terms with simple definitions]
3. **What This Means**: [What the patient should know/do]

Be empathetic, clear, and encouraging. Remember this is for someone who might be worried about their health.

Medical text to simplify:
%s`

const answerTemplate = `You are a helpful medical assistant. Answer the patient's question based on the provided medical context. 

Guidelines:
- Be clear and reassuring
- Use simple language
- If you don't know something, say so
- Always remind them to consult their doctor for medical decisions
- Keep answers concise but helpful

Remember: You provide educational information, not medical advice.

Medical Context: %s

Patient's Question: %s`

// SimplifyPrompt asks the model to rewrite a medical summary for a lay reader.
func SimplifyPrompt(text string) string {
	return fmt.Sprintf(simplifyTemplate, text)
}

// AnswerPrompt asks the model to answer a patient's question against the extracted report.
func AnswerPrompt(question, context string) string {
	return fmt.Sprintf(answerTemplate, context, question)
}

// DemoSimplified is served in place of a model response when the provider is unavailable.
const DemoSimplified = `**Simple Summary**: 
You had a heart attack (STEMI) which means one of the blood vessels that supplies your heart muscle got blocked. The doctors quickly opened it up with a procedure called angioplasty and put in a small tube (stent) to keep it open. This is a common and very treatable condition.

**Key Terms**:
- **STEMI**: A serious type of heart attack where a blood vessel is completely blocked
- **Angioplasty**: A procedure to open blocked blood vessels in the heart
- **Stent**: A small mesh tube that keeps blood vessels open
- **Hypertension**: High blood pressure
- **Hyperlipidemia**: High cholesterol levels

**What This Means**:
- You're going to be okay! This is a very treatable condition
- You'll need to take medications to prevent future problems
- Follow up with your cardiologist and primary care doctor
- Start cardiac rehabilitation to strengthen your heart
- Make lifestyle changes like eating healthy and exercising
- Avoid heavy lifting for a week, then gradually return to normal activities

Remember: This is educational information, not medical advice. Always consult your healthcare team for medical decisions.`

var demoAnswers = []struct {
	keywords []string
	answer   string
}{
	{[]string{"stemi", "heart attack"}, "STEMI stands for ST-elevation myocardial infarction - it's a serious type of heart attack where a blood vessel supplying your heart is completely blocked. The good news is that with modern treatment (like the angioplasty you received), most people recover well. Always follow your doctor's instructions and attend all follow-up appointments."},
	{[]string{"stent"}, "A stent is a small mesh tube that doctors place in blocked blood vessels to keep them open. It's like a tiny scaffold that helps blood flow properly to your heart. The stent stays in place permanently and helps prevent future blockages."},
	{[]string{"medication", "medicine"}, "Your medications are very important for your recovery. They help prevent blood clots, lower cholesterol, control blood pressure, and protect your heart. Take them exactly as prescribed and don't stop them without talking to your doctor first."},
	{[]string{"exercise", "activity"}, "Exercise is great for your heart, but start slowly. Begin with light activities like walking, and gradually increase as your doctor recommends. Cardiac rehabilitation programs are excellent for safely building up your strength and endurance."},
}

const demoDefaultAnswer = "That's a great question! For specific medical advice about your condition, I'd recommend discussing this with your cardiologist or primary care doctor. They can give you personalized guidance based on your specific situation. Remember, this is educational information, not medical advice."

// DemoAnswer picks a canned answer by keyword, checked in a fixed order.
func DemoAnswer(question string) string {
	q := strings.ToLower(question)
	for _, candidate := range demoAnswers {
		for _, keyword := range candidate.keywords {
			if strings.Contains(q, keyword) {
				return candidate.answer
			}
		}
	}
	return demoDefaultAnswer
}
