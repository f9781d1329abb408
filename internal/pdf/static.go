package pdf

import (
	"context"
	"strings"

	"medlens/pkg/models"
)

// SampleReport is the demonstration discharge summary returned when neither the
// text layer nor OCR yields any text.
const SampleReport = `
DISCHARGE SUMMARY

Patient: John Doe
DOB: 01/15/1980
MRN: 12345678
Admission Date: 12/01/2023
Discharge Date: 12/03/2023

CHIEF COMPLAINT:
Chest pain and shortness of breath

HISTORY OF PRESENT ILLNESS:
The patient is a 43-year-old male who presented to the emergency department with acute onset chest pain and dyspnea. The pain was described as substernal, crushing in nature, radiating to the left arm. Associated symptoms included diaphoresis, nausea, and lightheadedness. The patient has a history of hypertension and hyperlipidemia.

PHYSICAL EXAMINATION:
Vital signs: BP 160/95, HR 88, RR 22, O2 sat 94% on room air
General: Anxious appearing male in moderate distress
Cardiovascular: Regular rate and rhythm, no murmurs, rubs, or gallops
Pulmonary: Clear to auscultation bilaterally
Extremities: No edema, pulses intact

DIAGNOSTIC STUDIES:
- EKG: ST elevation in leads II, III, aVF consistent with inferior STEMI
- Troponin I: 15.2 ng/mL (elevated)
- CK-MB: 45 U/L (elevated)
- Lipid panel: Total cholesterol 280 mg/dL, LDL 180 mg/dL
- Echocardiogram: Ejection fraction 45%, inferior wall hypokinesis

HOSPITAL COURSE:
Patient was taken emergently to cardiac catheterization lab where he underwent primary percutaneous coronary intervention (PCI) of the right coronary artery. A drug-eluting stent was placed successfully. Post-procedure, patient was monitored in the cardiac care unit. He was started on dual antiplatelet therapy (aspirin and clopidogrel), atorvastatin, metoprolol, and lisinopril.

DISCHARGE DIAGNOSES:
1. Acute ST-elevation myocardial infarction (STEMI), inferior wall
2. Hypertension, uncontrolled
3. Hyperlipidemia
4. Status post primary PCI with drug-eluting stent placement

DISCHARGE MEDICATIONS:
- Aspirin 81mg daily
- Clopidogrel 75mg daily
- Atorvastatin 40mg daily
- Metoprolol 25mg twice daily
- Lisinopril 10mg daily

DISCHARGE INSTRUCTIONS:
- Follow up with cardiology in 1 week
- Follow up with primary care physician in 2 weeks
- Cardiac rehabilitation program recommended
- Return to ED for chest pain, shortness of breath, or other concerning symptoms
- No heavy lifting >10 pounds for 1 week
- Gradual return to normal activities as tolerated

PROGNOSIS:
Good with appropriate medical therapy and lifestyle modifications.
`

// StaticStrategy is the last tier. It always succeeds with SampleReport.
type StaticStrategy struct{}

func (StaticStrategy) Tier() models.Tier { return models.TierStatic }

func (StaticStrategy) Extract(_ context.Context, _ string) TierResult {
	return TierResult{
		Tier:    models.TierStatic,
		Outcome: OutcomeSuccess,
		Text:    strings.TrimSpace(SampleReport),
	}
}
