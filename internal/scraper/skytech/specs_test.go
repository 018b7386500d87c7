package skytech

import "testing"

const detailHTML = `
<html>
<head>
  <title>HP EliteDesk 800 G9 | Skytech</title>
  <meta name="description" content="HP EliteDesk 800 G9 stacionarus kompiuteris">
  <script type="application/ld+json">
    {"@type": "Product", "image": ["https://www.skytech.lt/images/large/pc1.jpg", "https://www.skytech.lt/images/large/pc2.jpg"]}
  </script>
</head>
<body>
  <div class="productInfoMain">
    <div class="model">Modelio kodas: 6B2B4EA</div>
    <span class="productPrice">899,00 €</span>
    <div class="brand"><a href="/hp">HP</a></div>
  </div>
  <table class="produktas">
    <tr><td>Procesorius:</td><td>Intel Core i5-12500</td></tr>
    <tr><td>Operatyvioji atmintis:</td><td>16GB DDR5</td></tr>
    <tr><td>Modelis:</td><td>should-not-overwrite</td></tr>
  </table>
  <div id="tab-description">
    <p><strong>Kietasis diskas</strong>: 512GB SSD</p>
    <p>Garantija: 36 mėn.</p>
  </div>
  <div class="productFeatures">
    <ul><li>Wi-Fi 6E</li><li>Bluetooth 5.3</li></ul>
  </div>
</body>
</html>`

func TestParseSpecsCascade(t *testing.T) {
	s := New("https://www.skytech.lt", "https://www.skytech.lt/category.html")
	specs := s.ParseSpecs(mustDoc(t, detailHTML))

	expected := map[string]string{
		"Modelis":               "6B2B4EA",
		"Kaina":                 "899,00 €",
		"Gamintojas":            "HP",
		"Procesorius":           "Intel Core i5-12500",
		"Operatyvioji atmintis": "16GB DDR5",
		"Kietasis diskas":       "512GB SSD",
		"Garantija":             "36 mėn.",
		"Ypatybės":              "Wi-Fi 6E, Bluetooth 5.3",
	}
	for key, want := range expected {
		if got := specs[key]; got != want {
			t.Errorf("specs[%q] = %q; want %q", key, got, want)
		}
	}

	// The info block found the model first, later strategies must not win.
	if specs["Modelis"] == "should-not-overwrite" {
		t.Error("table strategy overwrote an earlier key")
	}
	// Enough keys were found, the title/meta fallback must stay out.
	if _, ok := specs["Pilnas pavadinimas"]; ok {
		t.Error("title fallback fired despite rich specs")
	}
}

func TestParseSpecsTitleFallback(t *testing.T) {
	s := New("https://www.skytech.lt", "https://www.skytech.lt/category.html")
	specs := s.ParseSpecs(mustDoc(t, `
		<html><head>
			<title>Dell OptiPlex 7010 | Skytech</title>
			<meta name="description" content="Dell OptiPlex 7010 kompiuteris">
		</head><body></body></html>`))

	if specs["Pilnas pavadinimas"] != "Dell OptiPlex 7010 | Skytech" {
		t.Errorf("title fallback missing: %v", specs)
	}
	if specs["Meta aprašymas"] != "Dell OptiPlex 7010 kompiuteris" {
		t.Errorf("meta fallback missing: %v", specs)
	}
}

func TestParseSpecsDescriptionOnlyText(t *testing.T) {
	s := New("https://www.skytech.lt", "https://www.skytech.lt/category.html")
	specs := s.ParseSpecs(mustDoc(t, `
		<html><body>
			<div id="tab-description"><p>Puikus kompiuteris namams ir darbui.</p></div>
		</body></html>`))

	if specs["Aprašymas"] != "Puikus kompiuteris namams ir darbui." {
		t.Errorf("unstructured description not captured: %v", specs)
	}
}
