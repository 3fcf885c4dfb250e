package structured

import (
	"strings"
	"testing"
)

const sampleXML = `<config>
  <service name="api" tier="web">
    <port>8080</port>
    <host>a.example.com</host>
    <host>b.example.com</host>
  </service>
  <debug>false</debug>
</config>`

func TestParseXML_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "unclosed tag", data: `<config><service>`},
		{name: "mismatched close", data: `<config><a></b></config>`},
		{name: "no root element", data: `   `},
		{name: "text garbage", data: `not xml at all`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseXMLString(tt.data); err == nil {
				t.Errorf("Expected parse failure for %q", tt.data)
			}
		})
	}
}

func TestXMLDocument_FindElement(t *testing.T) {
	doc, err := ParseXMLString(sampleXML)
	if err != nil {
		t.Fatalf("ParseXMLString() failed: %v", err)
	}

	e, err := doc.FindElement("//service/port")
	if err != nil {
		t.Fatalf("FindElement() failed: %v", err)
	}
	if e.Text() != "8080" {
		t.Errorf("port text = %q, want \"8080\"", e.Text())
	}

	hosts := doc.FindElements("//service/host")
	if len(hosts) != 2 {
		t.Errorf("FindElements() returned %d hosts, want 2", len(hosts))
	}

	if _, err := doc.FindElement("//service/missing"); err == nil {
		t.Error("Expected error for missing path")
	}
}

func TestXMLDocument_Edits(t *testing.T) {
	doc, err := ParseXMLString(sampleXML)
	if err != nil {
		t.Fatalf("ParseXMLString() failed: %v", err)
	}

	if err := doc.SetText("//service/port", "9090"); err != nil {
		t.Fatalf("SetText() failed: %v", err)
	}
	e, _ := doc.FindElement("//service/port")
	if e.Text() != "9090" {
		t.Errorf("port after SetText() = %q, want \"9090\"", e.Text())
	}

	if err := doc.SetAttr("//service", "tier", "backend"); err != nil {
		t.Fatalf("SetAttr() failed: %v", err)
	}
	svc, _ := doc.FindElement("//service")
	if attr := svc.SelectAttr("tier"); attr == nil || attr.Value != "backend" {
		t.Errorf("tier attribute not updated: %v", attr)
	}

	if err := doc.Remove("//debug"); err != nil {
		t.Fatalf("Remove() failed: %v", err)
	}
	if _, err := doc.FindElement("//debug"); err == nil {
		t.Error("Expected error after Remove")
	}

	if err := doc.Remove("/config"); err == nil {
		t.Error("Expected error removing the root element")
	}
}

func TestXMLDocument_RoundTrip(t *testing.T) {
	doc, err := ParseXMLString(sampleXML)
	if err != nil {
		t.Fatalf("ParseXMLString() failed: %v", err)
	}

	text, err := doc.String()
	if err != nil {
		t.Fatalf("String() failed: %v", err)
	}

	again, err := ParseXMLString(text)
	if err != nil {
		t.Fatalf("Reparsing serialized document failed: %v", err)
	}

	textAgain, err := again.String()
	if err != nil {
		t.Fatalf("String() failed: %v", err)
	}
	if text != textAgain {
		t.Errorf("Round trip changed document:\n first: %s\nsecond: %s", text, textAgain)
	}

	// Structure survives the round trip.
	if len(again.FindElements("//service/host")) != 2 {
		t.Error("Host elements lost in round trip")
	}
}

func TestJSONToXML(t *testing.T) {
	doc, err := ParseJSONString(`{
	  "config": {
	    "service": "api",
	    "ports": [80, 443],
	    "limits": {"cpu": "2"}
	  }
	}`)
	if err != nil {
		t.Fatalf("ParseJSONString() failed: %v", err)
	}

	xml, err := JSONToXML(doc, 2)
	if err != nil {
		t.Fatalf("JSONToXML() failed: %v", err)
	}

	parsed, err := ParseXMLString(xml)
	if err != nil {
		t.Fatalf("Converted XML does not parse: %v\n%s", err, xml)
	}

	if parsed.Tree().Root().Tag != "config" {
		t.Errorf("Root tag = %q, want \"config\"", parsed.Tree().Root().Tag)
	}
	if e, err := parsed.FindElement("//config/service"); err != nil || e.Text() != "api" {
		t.Errorf("service element wrong: %v", err)
	}
	if ports := parsed.FindElements("//config/ports"); len(ports) != 2 {
		t.Errorf("Array should become repeated elements, got %d", len(ports))
	}
	if e, err := parsed.FindElement("//config/limits/cpu"); err != nil || e.Text() != "2" {
		t.Errorf("nested element wrong: %v", err)
	}
}

func TestJSONToXML_ScalarTopLevel(t *testing.T) {
	doc, err := ParseJSONString(`[1, 2, 3]`)
	if err != nil {
		t.Fatalf("ParseJSONString() failed: %v", err)
	}
	if _, err := JSONToXML(doc, 2); err == nil {
		t.Error("Expected error for non-object top level")
	}
}

func TestJSONToXML_MultiKeyWrapsRoot(t *testing.T) {
	doc, err := ParseJSONString(`{"a": "1", "b": "2"}`)
	if err != nil {
		t.Fatalf("ParseJSONString() failed: %v", err)
	}

	xml, err := JSONToXML(doc, 2)
	if err != nil {
		t.Fatalf("JSONToXML() failed: %v", err)
	}
	if !strings.Contains(xml, "<root>") {
		t.Errorf("Expected synthetic <root> wrapper:\n%s", xml)
	}
}

func TestXMLToJSON(t *testing.T) {
	doc, err := ParseXMLString(sampleXML)
	if err != nil {
		t.Fatalf("ParseXMLString() failed: %v", err)
	}

	jdoc, err := XMLToJSON(doc)
	if err != nil {
		t.Fatalf("XMLToJSON() failed: %v", err)
	}

	// Attributes fold in as keys.
	if name, err := jdoc.GetString("config", "service", "name"); err != nil || name != "api" {
		t.Errorf("service name = %q (err %v), want \"api\"", name, err)
	}
	// Text-only elements become strings.
	if port, err := jdoc.GetString("config", "service", "port"); err != nil || port != "8080" {
		t.Errorf("port = %q (err %v), want \"8080\"", port, err)
	}
	// Repeated siblings become arrays.
	if host, err := jdoc.GetString("config", "service", "host", "1"); err != nil || host != "b.example.com" {
		t.Errorf("host[1] = %q (err %v), want \"b.example.com\"", host, err)
	}
	if debug, err := jdoc.GetString("config", "debug"); err != nil || debug != "false" {
		t.Errorf("debug = %q (err %v), want \"false\"", debug, err)
	}
}

func TestXMLToJSON_TextWithAttributes(t *testing.T) {
	doc, err := ParseXMLString(`<item id="7">widget</item>`)
	if err != nil {
		t.Fatalf("ParseXMLString() failed: %v", err)
	}

	jdoc, err := XMLToJSON(doc)
	if err != nil {
		t.Fatalf("XMLToJSON() failed: %v", err)
	}

	if id, err := jdoc.GetString("item", "id"); err != nil || id != "7" {
		t.Errorf("item id = %q (err %v), want \"7\"", id, err)
	}
	if text, err := jdoc.GetString("item", "#text"); err != nil || text != "widget" {
		t.Errorf("item #text = %q (err %v), want \"widget\"", text, err)
	}
}
